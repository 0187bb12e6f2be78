package analysis

// Stage names one step of an analysis run.
type Stage string

const (
	StageScan       Stage = "scan"
	StageIndex      Stage = "index"
	StageModelBatch Stage = "model_batch"
	StageDeep       Stage = "deep"
	StageMerge      Stage = "merge"
)

// Isolation describes what a failure inside a stage does to the run.
type Isolation string

const (
	// IsolationPerItem skips the failing item and keeps the rest of the stage.
	IsolationPerItem Isolation = "per_item"
	// IsolationAllOrNothing fails the whole run.
	IsolationAllOrNothing Isolation = "all_or_nothing"
	// IsolationDegrade replaces the stage output with its empty default.
	IsolationDegrade Isolation = "degrade"
)

// StagePolicy is the failure isolation applied to each stage.
var StagePolicy = map[Stage]Isolation{
	StageScan:       IsolationPerItem,
	StageIndex:      IsolationAllOrNothing,
	StageModelBatch: IsolationAllOrNothing,
	StageDeep:       IsolationDegrade,
	StageMerge:      IsolationAllOrNothing,
}

// PolicyFor returns the isolation for stage; unknown stages fail the run.
func PolicyFor(stage Stage) Isolation {
	if iso, ok := StagePolicy[stage]; ok {
		return iso
	}
	return IsolationAllOrNothing
}
