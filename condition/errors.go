package condition

import "fmt"

// Stage names a step of the conditioning pass.
type Stage string

const (
	StageLoad      Stage = "load"
	StageResample  Stage = "resample"
	StageFilter    Stage = "filter"
	StageNormalize Stage = "normalize"
	StageWrite     Stage = "write"
)

// StageError reports the file and stage at which conditioning failed.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("condition: %s: %v", e.Stage, e.Err)
	}

	return fmt.Sprintf("condition: %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageError(stage Stage, path string, err error) error {
	return &StageError{Stage: stage, Path: path, Err: err}
}
