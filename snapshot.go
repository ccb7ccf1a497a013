package rag

// Snapshot is a sealed interface representing one observation of a job's
// state. Exactly one of Processing, Succeeded or Failed is returned by a
// status lookup, so callers never see a success without a result or a
// failure without a message.
// The unexported marker method prevents external implementations.
type Snapshot interface {
	Status() Status
	snapshot()
}

// Processing means the job has been accepted and is still running.
type Processing struct{}

func (Processing) Status() Status { return StatusProcessing }
func (Processing) snapshot()      {}

// Succeeded carries the result of a job that finished successfully.
type Succeeded[T any] struct {
	Result T
	// Terminal is StatusSuccess for ingestion and StatusCompleted for queries.
	Terminal Status
}

func (s Succeeded[T]) Status() Status {
	if s.Terminal == "" {
		return StatusSuccess
	}
	return s.Terminal
}
func (Succeeded[T]) snapshot() {}

// Failed carries the server's diagnostic for a job that failed.
type Failed struct {
	Message string
}

func (Failed) Status() Status { return StatusError }
func (Failed) snapshot()      {}

// Interface compliance checks.
var (
	_ Snapshot = Processing{}
	_ Snapshot = Succeeded[IngestResult]{}
	_ Snapshot = Succeeded[Answer]{}
	_ Snapshot = Failed{}
)
