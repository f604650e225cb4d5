package models

// Source represents the provenance of a persisted record.
// It governs which records the sync is allowed to overwrite or retire:
// automatic records are rebuilt on every run, manual records are preserved.
type Source string

const (
	// SourceAuto indicates the record was produced by the automatic sync.
	SourceAuto Source = "AUTO"
	// SourceManual indicates the record was created or edited by a human operator.
	SourceManual Source = "MANUAL"
)
