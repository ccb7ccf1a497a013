package rag

// Status is a job state as reported by the server.
//
// Ingestion jobs finish in StatusSuccess, query jobs in StatusCompleted; the
// two are equivalent terminal-success states. "Not yet registered" is not a
// Status: it is inferred from a status lookup failing with ErrNotFound.
type Status string

const (
	StatusProcessing Status = "processing" // Initial and only non-terminal state.
	StatusSuccess    Status = "success"    // Terminal, ingestion result.
	StatusCompleted  Status = "completed"  // Terminal, query result.
	StatusError      Status = "error"      // Terminal, diagnostic message.
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusSuccess, StatusCompleted, StatusError:
		return true
	}
	return false
}

// Terminal reports whether no further state changes can follow s.
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusProcessing
}

// CanTransition reports whether a job observed in state s may later be
// observed in state to. States are monotonic: once a job leaves processing
// it never returns.
func (s Status) CanTransition(to Status) bool {
	if !to.Valid() {
		return false
	}
	return s == StatusProcessing
}
