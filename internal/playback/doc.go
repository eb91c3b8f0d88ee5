// Package playback implements the playback session manager and the paced
// chunk emission loop. The manager owns the single active session: start,
// stop and status serialize through one mutex, every scheduled tick is bound
// to the session that created it, and teardown closes the publish channel
// exactly once no matter what ended the session.
package playback
