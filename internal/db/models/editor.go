package models

import "time"

// EditorRef identifies who performed a change.
// For sync runs the DirectoryUserID is the literal "system" and RunID carries
// the identifier of the run that wrote the record.
type EditorRef struct {
	DirectoryUserID string `json:"directoryUserId"`
	FallbackName    string `json:"fallbackName"`
	DisplayName     string `json:"displayName,omitempty"`
	RunID           string `json:"runId,omitempty"`
}

// EditorStamp is an audit stamp on created/modified/granted fields.
type EditorStamp struct {
	By EditorRef `json:"by"`
	At time.Time `json:"at"`
}
