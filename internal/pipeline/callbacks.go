package pipeline

import "imgopt/internal/report"

// ProgressInfo announces that file Index of Total is about to be handled.
// Index is 1-based.
type ProgressInfo struct {
	Index int
	Total int
}

// FileInfo identifies the file currently being processed.
type FileInfo struct {
	Path  string
	Index int
	Total int
}

// ErrorInfo reports a per-file failure.
type ErrorInfo struct {
	Path string
	Err  error
}

// CompleteInfo is delivered once, after the last file.
type CompleteInfo struct {
	Summary   report.Summary
	Cancelled bool
}

// Callbacks let a caller observe a run as it happens. Any field may be
// nil. All callbacks fire on the goroutine running the batch.
type Callbacks struct {
	OnProgress func(ProgressInfo)
	OnFile     func(FileInfo)
	OnOutcome  func(report.Outcome)
	OnError    func(ErrorInfo)
	OnComplete func(CompleteInfo)
}

func callSafe[T any](fn func(T), info T) {
	if fn != nil {
		fn(info)
	}
}
