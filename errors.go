package rag

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation before submission.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a status lookup found no record of the job.
	// It is transient on the first lookup only; see Await.
	ErrNotFound = errors.New("job not found")

	// ErrStreamingUnsupported indicates the backend has no streaming endpoint.
	ErrStreamingUnsupported = errors.New("streaming not supported")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// SubmissionError indicates a job was never accepted: the request failed,
// the server answered with a non-success code, or the acknowledgement did
// not report a processing job.
type SubmissionError struct {
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("submission failed: HTTP %d: %s: %v", e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("submission failed: HTTP %d: %s", e.StatusCode, e.Message)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("submission failed: %s: %v", e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("submission failed: %v", e.Err)
	default:
		return "submission failed: " + e.Message
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// NotRegisteredError indicates a status lookup still found no record of the
// job after the single-attempt grace period.
type NotRegisteredError struct {
	JobID   string
	Attempt int
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("job %s not registered (attempt %d)", e.JobID, e.Attempt)
}

func (e *NotRegisteredError) Unwrap() error { return ErrNotFound }

// TimeoutError indicates the poll budget ran out while the job was still
// processing. LastErr is the most recent failed lookup, if any.
type TimeoutError struct {
	JobID    string
	Attempts int
	Budget   time.Duration
	LastErr  error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("job %s still processing after %d attempts (%s)", e.JobID, e.Attempts, e.Budget)
	if e.LastErr != nil {
		msg += fmt.Sprintf(": last error: %v", e.LastErr)
	}
	return msg
}

func (e *TimeoutError) Unwrap() error { return e.LastErr }

// JobError indicates the server reported a terminal failure for the job.
// Message is a human-readable diagnostic, not a stable code.
type JobError struct {
	JobID   string // empty for streamed jobs
	Message string
}

func (e *JobError) Error() string {
	if e.JobID == "" {
		return "job failed: " + e.Message
	}
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Message)
}

// StreamTransportError indicates a channel-level failure: the stream could
// not be opened, the server answered with a non-success code, or the
// connection dropped mid-stream.
type StreamTransportError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *StreamTransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("stream transport: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("stream transport: %v", e.Err)
}

func (e *StreamTransportError) Unwrap() error { return e.Err }

// FrameDecodeError describes a single stream frame that could not be
// decoded. It is logged and skipped, never returned to callers of Consume.
type FrameDecodeError struct {
	Frame string
	Err   error
}

func (e *FrameDecodeError) Error() string {
	return fmt.Sprintf("decode frame %q: %v", e.Frame, e.Err)
}

func (e *FrameDecodeError) Unwrap() error { return e.Err }
