package rag

// Stream uses a pull-based iterator pattern over the frames of one query.
// Cancellation flows through the context passed to StreamOpener.StreamQuery.
//
// Next behavior:
//   - returns each decoded event in send order; undecodable frames are
//     skipped by the implementation and never surface here.
//   - returns EventEnd or EventError as the last event when the server sends
//     a terminal frame, then io.EOF on every later call.
//   - returns io.EOF when the channel closes without a terminal frame.
//   - returns a *StreamTransportError when reading fails.
//
// Close releases the underlying channel. It is safe to call more than once.
type Stream interface {
	Next() (Event, error)
	Close() error
}
