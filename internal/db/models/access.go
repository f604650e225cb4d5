package models

// AccessEntryType distinguishes the kinds of access-grant entries.
// Automatic entries are rebuilt on every run, manual entries are never
// touched by the sync.
type AccessEntryType string

const (
	// AccessTypeManualSchool grants school-leader access to a whole school.
	AccessTypeManualSchool AccessEntryType = "MANUAL-SCHOOL-ACCESS"
	// AccessTypeManualProgramArea grants access to a program area.
	AccessTypeManualProgramArea AccessEntryType = "MANUAL-PROGRAM-AREA-ACCESS"
	// AccessTypeManualStudent grants access to an individual student.
	AccessTypeManualStudent AccessEntryType = "MANUAL-STUDENT-ACCESS"
	// AccessTypeAutoClass grants access derived from a class teacher roster.
	AccessTypeAutoClass AccessEntryType = "AUTOMATIC-CLASS-ACCESS"
	// AccessTypeAutoTeachingGroup grants access derived from a teaching-group
	// teacher roster.
	AccessTypeAutoTeachingGroup AccessEntryType = "AUTOMATIC-TEACHING-GROUP-ACCESS"
	// AccessTypeAutoContactTeacherGroup grants access derived from a
	// contact-teacher-group teacher roster.
	AccessTypeAutoContactTeacherGroup AccessEntryType = "AUTOMATIC-CONTACT-TEACHER-GROUP-ACCESS"
)

// Automatic reports whether the entry type is rebuilt by the sync.
func (t AccessEntryType) Automatic() bool {
	switch t {
	case AccessTypeAutoClass, AccessTypeAutoTeachingGroup, AccessTypeAutoContactTeacherGroup:
		return true
	case AccessTypeManualSchool, AccessTypeManualProgramArea, AccessTypeManualStudent:
		return false
	}

	return false
}

// AccessEntry is a single grant inside an Access record. SystemID identifies
// the granted group or student for the entry types that reference one.
type AccessEntry struct {
	SystemID     string          `json:"systemId,omitempty"`
	SchoolNumber string          `json:"schoolNumber"`
	Type         AccessEntryType `json:"type"`
	Granted      EditorStamp     `json:"granted"`
	Source       Source          `json:"source"`
}

// Access collects all grants held by one directory-linked user.
// Schools, ProgramAreas and Students hold manual grants only; Classes mixes
// automatic and manual entries; TeachingGroups and ContactTeacherGroups are
// automatic only.
type Access struct {
	DirectoryUserID      string        `json:"directoryUserId"`
	Name                 string        `json:"name"`
	Schools              []AccessEntry `json:"schools"`
	ProgramAreas         []AccessEntry `json:"programAreas"`
	Classes              []AccessEntry `json:"classes"`
	TeachingGroups       []AccessEntry `json:"teachingGroups"`
	ContactTeacherGroups []AccessEntry `json:"contactTeacherGroups"`
	Students             []AccessEntry `json:"students"`
}

// Clone returns a deep value copy of the access record.
func (a Access) Clone() Access {
	out := a
	out.Schools = append([]AccessEntry(nil), a.Schools...)
	out.ProgramAreas = append([]AccessEntry(nil), a.ProgramAreas...)
	out.Classes = append([]AccessEntry(nil), a.Classes...)
	out.TeachingGroups = append([]AccessEntry(nil), a.TeachingGroups...)
	out.ContactTeacherGroups = append([]AccessEntry(nil), a.ContactTeacherGroups...)
	out.Students = append([]AccessEntry(nil), a.Students...)

	return out
}
