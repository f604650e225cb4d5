package models

// School is a persisted school record, created lazily the first time any
// enrollment references an unknown school number. Provenance is AUTO when the
// school number appeared in the run's upstream fetch, MANUAL otherwise.
type School struct {
	Name         string      `json:"name"`
	SchoolNumber string      `json:"schoolNumber"`
	Created      EditorStamp `json:"created"`
	Modified     EditorStamp `json:"modified"`
	Source       Source      `json:"source"`
}

// Clone returns a value copy of the school.
func (s School) Clone() School {
	return s
}
