package domain

// FieldMapping declares a correspondence between one source column and one
// target field, with a confidence score in [0,1].
//
// Source fields are unique within a mapping set: at most one target per
// source column. Target fields should be unique but the core does not
// require it; when several mappings write the same target, the last
// applied wins.
type FieldMapping struct {
	// SourceField is the spreadsheet column name.
	SourceField string `json:"sourceField"`

	// TargetField is the target field id.
	TargetField string `json:"targetField"`

	// Confidence is the match confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// TransformRequired flags mappings whose values need conversion.
	TransformRequired bool `json:"transformRequired,omitempty"`

	// TransformDescription explains the conversion when one is required.
	TransformDescription string `json:"transformDescription,omitempty"`
}
