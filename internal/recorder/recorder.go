package recorder

import "NiftySentinel/internal/model"

// Recorder journals completed evaluations for later analysis.
// Journals are write-only: nothing in the evaluation path reads them back.
type Recorder interface {
	RecordEvaluation(ev *model.Evaluation) error
	Close() error
}
