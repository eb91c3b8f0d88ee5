// Package library provides the directory-backed sample source store.
// It enumerates and loads WAV files from a configured directory and watches
// it for changes so observers can be notified when the file set changes.
package library
