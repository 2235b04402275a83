package orchestrator

import "fmt"

// Stage identifies which pipeline phase an error escaped from, preserving
// the failure classification across the fail-fast abort.
type Stage string

const (
	StageConnect     Stage = "connectivity"
	StageSync        Stage = "repository-sync"
	StageMaterialize Stage = "config-materialize"
	StageStart       Stage = "cluster-start"
	StageBenchmark   Stage = "benchmark"
	StageStop        Stage = "cluster-stop"
)

type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
