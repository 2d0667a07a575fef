package pipeline

import "fmt"

// Pipeline stage names for ProcessError.
const (
	StageRead   = "read"
	StageDecode = "decode"
	StageEncode = "encode"
	StageWrite  = "write"
)

// ProcessError wraps a per-file failure with the stage it happened in.
// One bad file never aborts the batch; the caller records it and moves on.
type ProcessError struct {
	Path  string
	Stage string
	Err   error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }
