package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skypro1111/audio-cast-service/internal/audio"
	"github.com/skypro1111/audio-cast-service/internal/metrics"
	"github.com/skypro1111/audio-cast-service/internal/notify"
	"github.com/skypro1111/audio-cast-service/internal/protocol"
	"github.com/skypro1111/audio-cast-service/internal/publish"
)

// Default streaming parameters
const (
	DefaultChunkSize     = 1024
	DefaultFrameInterval = 10 * time.Millisecond
)

// Broadcaster delivers status events to all current observers
type Broadcaster interface {
	Broadcast(event any)
}

// Config contains streaming parameters for the manager
type Config struct {
	ChunkSize     int           // samples per frame
	FrameInterval time.Duration // emission cadence
}

// session is one playback lifecycle unit, exclusively owned by the manager.
// Its fields are guarded by the manager mutex except samples, id and
// channel, which are immutable after creation.
type session struct {
	id         uint64
	sourceRef  string
	sampleRate int
	samples    []float32
	cursor     int
	bytesSent  uint64
	startedAt  time.Time
	channel    publish.Channel
	cancel     context.CancelFunc

	// Guarantees the channel is closed exactly once regardless of which
	// of stop, completion, replacement or error triggers teardown
	cleanup sync.Once
}

// Manager owns the single active playback session. All session mutation is
// serialized through its mutex, which is held only for O(1) bookkeeping so
// that status reads never block on an in-flight send.
type Manager struct {
	logger   *slog.Logger
	source   Source
	opener   publish.Opener
	notifier Broadcaster
	metrics  *metrics.Metrics

	chunkSize     int
	frameInterval time.Duration

	mu      sync.Mutex
	state   State
	current *session
	lastID  uint64
}

// NewManager creates a playback session manager
func NewManager(logger *slog.Logger, cfg Config, source Source, opener publish.Opener,
	notifier Broadcaster, m *metrics.Metrics) (*Manager, error) {

	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.FrameInterval == 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}

	if cfg.ChunkSize < 1 || cfg.ChunkSize > protocol.MaxFrameSamples {
		return nil, fmt.Errorf("chunk size must be between 1 and %d samples, got %d",
			protocol.MaxFrameSamples, cfg.ChunkSize)
	}
	if cfg.FrameInterval < time.Millisecond {
		return nil, fmt.Errorf("frame interval must be at least 1ms, got %v", cfg.FrameInterval)
	}

	return &Manager{
		logger:        logger,
		source:        source,
		opener:        opener,
		notifier:      notifier,
		metrics:       m,
		chunkSize:     cfg.ChunkSize,
		frameInterval: cfg.FrameInterval,
	}, nil
}

// Start resolves and decodes the source, supersedes any active session,
// opens a publish channel and launches the emission loop bound to a fresh
// session ID. It returns once streaming has been set up; frame emission
// proceeds asynchronously. Decode and open failures leave any prior
// session untouched.
func (m *Manager) Start(ctx context.Context, ref string) error {
	samples, sampleRate, err := m.source.Decode(ref)
	if err != nil {
		return err
	}

	channel, err := m.opener.Open(ctx)
	if err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()

	// Replacement reuses the stop teardown path but does not broadcast a
	// stopped status; only the new playing status goes out.
	if m.current != nil {
		if m.metrics != nil {
			m.metrics.RecordSessionReplaced()
		}
		m.teardownLocked(false, "replaced")
	}

	m.lastID++
	sess := &session{
		id:         m.lastID,
		sourceRef:  ref,
		sampleRate: sampleRate,
		samples:    samples,
		startedAt:  time.Now(),
		channel:    channel,
		cancel:     cancel,
	}
	m.current = sess
	m.state = StatePlaying

	if m.metrics != nil {
		m.metrics.RecordSessionStarted()
	}
	m.broadcastLocked(notify.NewStatusEvent(true, ref))

	m.logger.Info("Playback session started",
		slog.Uint64("session_id", sess.id),
		slog.String("file", ref),
		slog.Int("samples", len(samples)),
		slog.Int("sample_rate", sampleRate),
		slog.Int("frames", audio.FrameCount(len(samples), m.chunkSize)),
	)

	m.mu.Unlock()

	go m.emissionLoop(loopCtx, sess)

	return nil
}

// Stop cancels the active session, closes its channel, resets state to
// Idle and broadcasts a stopped status exactly once. Calling Stop with no
// active session is a no-op with no broadcast. After Stop returns no
// further frames are issued for the stopped session.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}

	m.teardownLocked(true, "stop")
}

// Status returns a snapshot of the current session fields. It is a pure
// read and never blocks on the emission loop.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{State: m.state}
	if m.current != nil {
		st.Playing = m.state == StatePlaying
		st.CurrentFile = m.current.sourceRef
		st.BytesSent = m.current.bytesSent
		st.SessionID = m.current.id
	}
	return st
}

// teardownLocked releases the current session and returns the manager to
// Idle. Callers must hold the mutex.
func (m *Manager) teardownLocked(broadcast bool, reason string) {
	sess := m.current
	if sess == nil {
		return
	}

	m.state = StateStopping
	m.current = nil
	m.releaseSession(sess, reason)
	m.state = StateIdle

	if broadcast {
		m.broadcastLocked(notify.NewStatusEvent(false, ""))
	}
}

// releaseSession cancels the emission loop and closes the publish channel,
// exactly once per session
func (m *Manager) releaseSession(sess *session, reason string) {
	sess.cleanup.Do(func() {
		sess.cancel()

		if err := sess.channel.Close(); err != nil {
			m.logger.Warn("Failed to close publish channel",
				slog.Uint64("session_id", sess.id),
				slog.String("error", err.Error()),
			)
		}

		if m.metrics != nil {
			m.metrics.RecordSessionStopped(time.Since(sess.startedAt).Seconds())
		}

		m.logger.Info("Playback session released",
			slog.Uint64("session_id", sess.id),
			slog.String("file", sess.sourceRef),
			slog.String("reason", reason),
			slog.Uint64("bytes_sent", sess.bytesSent),
			slog.Int("cursor", sess.cursor),
			slog.Duration("duration", time.Since(sess.startedAt)),
		)
	})
}

func (m *Manager) broadcastLocked(event any) {
	if m.notifier != nil {
		m.notifier.Broadcast(event)
		if m.metrics != nil {
			m.metrics.RecordEventBroadcast()
		}
	}
}

// emissionLoop paces frame emission at the configured cadence. Each tick is
// handled to completion (send confirmed, counters advanced) before the next
// one is acted on, so frames go out in strictly increasing cursor order.
func (m *Manager) emissionLoop(ctx context.Context, sess *session) {
	ticker := time.NewTicker(m.frameInterval)
	defer ticker.Stop()

	m.logger.Debug("Emission loop started", slog.Uint64("session_id", sess.id))

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("Emission loop cancelled", slog.Uint64("session_id", sess.id))
			return
		case <-ticker.C:
			if !m.emitFrame(ctx, sess) {
				return
			}
		}
	}
}

// emitFrame handles one tick of the emission loop for sess. It returns
// false when the loop must terminate: natural completion, send failure, or
// the session having been superseded.
func (m *Manager) emitFrame(ctx context.Context, sess *session) bool {
	m.mu.Lock()

	// Generation check: a newer start or a stop may have superseded this
	// session while the tick was pending. A stale tick must not touch
	// shared state or the already-closed channel.
	if m.current != sess {
		m.mu.Unlock()
		return false
	}

	if sess.cursor >= len(sess.samples) {
		m.teardownLocked(true, "completed")
		m.mu.Unlock()
		return false
	}

	frame := audio.FrameAt(sess.samples, sess.cursor, m.chunkSize)
	m.mu.Unlock()

	data, err := protocol.EncodeFrame(frame)
	if err == nil {
		// The send is confirmed (or failed) before the next frame is
		// considered; the mutex is not held across it.
		err = sess.channel.Send(ctx, data)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check the generation: if a newer session took over while the
	// send was in flight, this one's channel is already closed and its
	// counters are frozen.
	if m.current != sess {
		return false
	}

	if err != nil {
		m.logger.Error("Frame send failed, terminating session",
			slog.Uint64("session_id", sess.id),
			slog.String("file", sess.sourceRef),
			slog.Int("cursor", sess.cursor),
			slog.String("error", err.Error()),
		)
		if m.metrics != nil {
			m.metrics.RecordSendFailure()
		}
		m.teardownLocked(true, "send failure")
		return false
	}

	sess.cursor += len(frame)
	sess.bytesSent += uint64(len(data))

	if m.metrics != nil {
		m.metrics.RecordFrameSent(len(data))
	}

	return true
}
