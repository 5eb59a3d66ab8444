package pipeline

type Stage string

const (
	StageClean        Stage = "clean"
	StageDateFeatures Stage = "date_features"
	StageFrequency    Stage = "frequency_encoding"
	StageTarget       Stage = "target_encoding"
	StagePrune        Stage = "prune"
	StageActuals      Stage = "extract_actuals"
	StageAlign        Stage = "align"
	StagePredict      Stage = "predict"
)

const (
	ReasonApplied        = "applied"
	ReasonNoDateColumn   = "no_date_column"
	ReasonNoArtifact     = "no_artifact"
	ReasonNoSourceColumn = "no_source_column"
	ReasonNothingToPrune = "nothing_to_prune"
	ReasonNoPriceColumn  = "no_price_column"
	ReasonNoRows         = "no_rows"
)

// Decision records whether an optional stage ran and, when it did not, why.
type Decision struct {
	Stage   Stage  `json:"stage"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason"`
}

func applied(stage Stage) Decision {
	return Decision{Stage: stage, Applied: true, Reason: ReasonApplied}
}

func skipped(stage Stage, reason string) Decision {
	return Decision{Stage: stage, Reason: reason}
}
