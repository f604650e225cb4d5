package models

import "time"

// Period is a normalized validity window. A nil Start or End means open-ended
// on that side.
type Period struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// ActiveAt reports whether now falls inside the validity window.
func (p Period) ActiveAt(now time.Time) bool {
	if p.Start != nil && p.Start.After(now) {
		return false
	}

	if p.End != nil && p.End.Before(now) {
		return false
	}

	return true
}

// Clone returns a value copy with its own timestamp allocations.
func (p Period) Clone() Period {
	out := Period{}
	if p.Start != nil {
		start := *p.Start
		out.Start = &start
	}

	if p.End != nil {
		end := *p.End
		out.End = &end
	}

	return out
}

// Teacher is an upstream teaching resource embedded in group descriptors.
// DirectoryUserID is empty when no directory-linked user matched the
// teacher's federated username.
type Teacher struct {
	DirectoryUserID string `json:"directoryUserId,omitempty"`
	SystemID        string `json:"systemId"`
	FeideName       string `json:"feideName"`
	Name            string `json:"name"`
}

// ClassGroup is a class with its teacher roster.
type ClassGroup struct {
	SystemID string    `json:"systemId"`
	Name     string    `json:"name"`
	Teachers []Teacher `json:"teachers"`
	Source   Source    `json:"source"`
}

// TeachingGroup is a teaching group with its teacher roster.
type TeachingGroup struct {
	SystemID string    `json:"systemId"`
	Name     string    `json:"name"`
	Teachers []Teacher `json:"teachers"`
	Source   Source    `json:"source"`
}

// ContactTeacherGroup is a contact-teacher group with its teacher roster.
type ContactTeacherGroup struct {
	SystemID string    `json:"systemId"`
	Name     string    `json:"name"`
	Teachers []Teacher `json:"teachers"`
	Source   Source    `json:"source"`
}

// ClassMembership is a time-bounded membership in a class.
type ClassMembership struct {
	SystemID string     `json:"systemId"`
	Period   Period     `json:"period"`
	Class    ClassGroup `json:"class"`
}

// TeachingGroupMembership is a time-bounded membership in a teaching group.
type TeachingGroupMembership struct {
	SystemID string        `json:"systemId"`
	Period   Period        `json:"period"`
	Group    TeachingGroup `json:"teachingGroup"`
}

// ContactTeacherGroupMembership is a time-bounded membership in a
// contact-teacher group.
type ContactTeacherGroupMembership struct {
	SystemID string              `json:"systemId"`
	Period   Period              `json:"period"`
	Group    ContactTeacherGroup `json:"contactTeacherGroup"`
}

// SchoolRef names the school an enrollment belongs to.
type SchoolRef struct {
	Name         string `json:"name"`
	SchoolNumber string `json:"schoolNumber"`
}

// Enrollment is a time-bounded relationship between a student and a school,
// carrying the three membership kinds. Automatic enrollments are rebuilt from
// scratch on every run; manual enrollments persist and are only ever
// end-dated or demoted.
type Enrollment struct {
	SystemID                       string                          `json:"systemId"`
	School                         SchoolRef                       `json:"school"`
	Period                         Period                          `json:"period"`
	ClassMemberships               []ClassMembership               `json:"classMemberships"`
	TeachingGroupMemberships       []TeachingGroupMembership       `json:"teachingGroupMemberships"`
	ContactTeacherGroupMemberships []ContactTeacherGroupMembership `json:"contactTeacherGroupMemberships"`
	MainSchool                     bool                            `json:"mainSchool"`
	Source                         Source                          `json:"source"`
}

// Clone returns a deep value copy of the enrollment.
func (e Enrollment) Clone() Enrollment {
	out := e
	out.Period = e.Period.Clone()

	out.ClassMemberships = make([]ClassMembership, len(e.ClassMemberships))
	for i, m := range e.ClassMemberships {
		m.Period = m.Period.Clone()
		m.Class.Teachers = append([]Teacher(nil), m.Class.Teachers...)
		out.ClassMemberships[i] = m
	}

	out.TeachingGroupMemberships = make([]TeachingGroupMembership, len(e.TeachingGroupMemberships))
	for i, m := range e.TeachingGroupMemberships {
		m.Period = m.Period.Clone()
		m.Group.Teachers = append([]Teacher(nil), m.Group.Teachers...)
		out.TeachingGroupMemberships[i] = m
	}

	out.ContactTeacherGroupMemberships = make([]ContactTeacherGroupMembership, len(e.ContactTeacherGroupMemberships))
	for i, m := range e.ContactTeacherGroupMemberships {
		m.Period = m.Period.Clone()
		m.Group.Teachers = append([]Teacher(nil), m.Group.Teachers...)
		out.ContactTeacherGroupMemberships[i] = m
	}

	return out
}

// Student is a persisted student record. Identity is resolved by upstream
// SystemID or SSN; either match is sufficient.
type Student struct {
	SystemID      string       `json:"systemId"`
	StudentNumber string       `json:"studentNumber"`
	SSN           string       `json:"ssn"`
	FeideName     string       `json:"feideName"`
	Name          string       `json:"name"`
	Enrollments   []Enrollment `json:"enrollments"`
	// MainEnrollment references the first enrollment flagged as main school,
	// or nil if none. It points into Enrollments rather than holding an
	// independent record.
	MainEnrollment *Enrollment `json:"mainEnrollment"`
	Created        EditorStamp `json:"created"`
	Modified       EditorStamp `json:"modified"`
	Source         Source      `json:"source"`
}

// Clone returns a deep value copy of the student. When MainEnrollment aliases
// an element of Enrollments, the copy's MainEnrollment points into the copied
// slice; otherwise it is copied as a standalone value.
func (s Student) Clone() Student {
	out := s

	mainIdx := -1

	out.Enrollments = make([]Enrollment, len(s.Enrollments))
	for i := range s.Enrollments {
		out.Enrollments[i] = s.Enrollments[i].Clone()
		if s.MainEnrollment == &s.Enrollments[i] {
			mainIdx = i
		}
	}

	switch {
	case mainIdx >= 0:
		out.MainEnrollment = &out.Enrollments[mainIdx]
	case s.MainEnrollment != nil:
		main := s.MainEnrollment.Clone()
		out.MainEnrollment = &main
	}

	return out
}
