package models

// DirectoryProfile carries the attributes mirrored from the identity directory.
type DirectoryProfile struct {
	// ID is the directory object identifier, the primary match key for users.
	ID            string `json:"id"`
	PrincipalName string `json:"principalName"`
	DisplayName   string `json:"displayName"`
	Company       string `json:"company"`
	Department    string `json:"department"`
}

// AppUser represents a directory-linked application user.
// Users are created on first sighting in the directory member list and are
// never deleted, only deactivated once they disappear from the directory.
type AppUser struct {
	// Active mirrors the directory enabled flag; forced false when the user
	// is absent from the current directory member list.
	Active bool `json:"active"`
	// FeideName is the federated username derived from the directory account
	// name and the configured domain suffix.
	FeideName string           `json:"feideName"`
	Directory DirectoryProfile `json:"directory"`
	Created   EditorStamp      `json:"created"`
	Modified  EditorStamp      `json:"modified"`
	Source    Source           `json:"source"`
}

// Clone returns a value copy of the user.
func (u AppUser) Clone() AppUser {
	return u
}
