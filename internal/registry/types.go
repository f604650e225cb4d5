package registry

// Wire types for the upstream education registry. The registry exposes a
// GraphQL API where any list may be absent and any list slot may be null, so
// optionals are pointer-typed and must survive decoding untouched.

// Identifier wraps the registry's identifier scalar.
type Identifier struct {
	Value string `json:"value"`
}

// PersonName is a structured person name.
type PersonName struct {
	First  string  `json:"first"`
	Middle *string `json:"middle"`
	Last   string  `json:"last"`
}

// Person carries the personal data attached to a student.
type Person struct {
	SSN  Identifier `json:"ssn"`
	Name PersonName `json:"name"`
}

// StudentRecord is the student payload inside an enrollment entry.
type StudentRecord struct {
	SystemID      *Identifier `json:"systemId"`
	FeideName     *Identifier `json:"feideName"`
	StudentNumber *Identifier `json:"studentNumber"`
	Person        Person      `json:"person"`
}

// ValidityPeriod is the raw validity interval: a date or date-time string for
// the start and an optional one for the end.
type ValidityPeriod struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// SchoolResource is the school-level teaching resource behind an assignment.
type SchoolResource struct {
	SystemID  Identifier  `json:"systemId"`
	FeideName *Identifier `json:"feideName"`
	Person    *struct {
		Name PersonName `json:"name"`
	} `json:"person"`
}

// TeachingAssignment links a group to a teaching resource.
type TeachingAssignment struct {
	SystemID Identifier     `json:"systemId"`
	Resource SchoolResource `json:"resource"`
}

// ClassGroup is a class with its teaching assignments.
type ClassGroup struct {
	SystemID            Identifier            `json:"systemId"`
	Name                string                `json:"name"`
	TeachingAssignments []*TeachingAssignment `json:"teachingAssignments"`
}

// ClassMembership is a student's time-bounded membership in a class.
type ClassMembership struct {
	SystemID Identifier      `json:"systemId"`
	Period   *ValidityPeriod `json:"period"`
	Class    ClassGroup      `json:"class"`
}

// TeachingGroup is a teaching group with its teaching assignments.
type TeachingGroup struct {
	SystemID            Identifier            `json:"systemId"`
	Name                string                `json:"name"`
	TeachingAssignments []*TeachingAssignment `json:"teachingAssignments"`
}

// TeachingGroupMembership is a student's membership in a teaching group.
type TeachingGroupMembership struct {
	SystemID Identifier      `json:"systemId"`
	Period   *ValidityPeriod `json:"period"`
	Group    TeachingGroup   `json:"teachingGroup"`
}

// ContactTeacherGroup is a contact-teacher group with its assignments.
type ContactTeacherGroup struct {
	SystemID            Identifier            `json:"systemId"`
	Name                string                `json:"name"`
	TeachingAssignments []*TeachingAssignment `json:"teachingAssignments"`
}

// ContactTeacherGroupMembership is a student's membership in a
// contact-teacher group.
type ContactTeacherGroupMembership struct {
	SystemID Identifier          `json:"systemId"`
	Period   *ValidityPeriod     `json:"period"`
	Group    ContactTeacherGroup `json:"contactTeacherGroup"`
}

// Enrollment is one student's enrollment entry at a school.
type Enrollment struct {
	SystemID                       Identifier                       `json:"systemId"`
	MainSchool                     *bool                            `json:"mainSchool"`
	Period                         *ValidityPeriod                  `json:"period"`
	Student                        StudentRecord                    `json:"student"`
	ClassMemberships               []*ClassMembership               `json:"classMemberships"`
	TeachingGroupMemberships       []*TeachingGroupMembership       `json:"teachingGroupMemberships"`
	ContactTeacherGroupMemberships []*ContactTeacherGroupMembership `json:"contactTeacherGroupMemberships"`
}

// School is a school with its full enrollment tree.
type School struct {
	Name         string        `json:"name"`
	SchoolNumber Identifier    `json:"schoolNumber"`
	Enrollments  []*Enrollment `json:"enrollments"`
}

// SchoolWithStudents is one school block as fetched per invocation.
// School is nil when the registry returned no payload for the school.
type SchoolWithStudents struct {
	School *School `json:"school"`
}

// SchoolInfo is the short school descriptor from the school list query.
type SchoolInfo struct {
	Name         string      `json:"name"`
	SchoolNumber *Identifier `json:"schoolNumber"`
}
