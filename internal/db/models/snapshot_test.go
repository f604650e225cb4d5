package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStudent() Student {
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	student := Student{
		SystemID:      "sys-1",
		StudentNumber: "sn-1",
		SSN:           "01010112345",
		FeideName:     "ola@example.org",
		Name:          "Ola Nordmann",
		Enrollments: []Enrollment{
			{
				SystemID: "enr-1",
				School:   SchoolRef{Name: "Example Upper Secondary", SchoolNumber: "1"},
				Period:   Period{Start: &start},
				ClassMemberships: []ClassMembership{
					{
						SystemID: "cm-1",
						Period:   Period{Start: &start},
						Class: ClassGroup{
							SystemID: "class-3a",
							Name:     "3A",
							Teachers: []Teacher{{DirectoryUserID: "guid-1", SystemID: "t1", FeideName: "kari@example.org", Name: "Kari Hansen"}},
							Source:   SourceAuto,
						},
					},
				},
				MainSchool: true,
				Source:     SourceAuto,
			},
			{
				SystemID: "enr-2",
				School:   SchoolRef{Name: "Example Lower Secondary", SchoolNumber: "2"},
				Source:   SourceManual,
			},
		},
		Source: SourceAuto,
	}
	student.MainEnrollment = &student.Enrollments[0]

	return student
}

func TestStudentCloneIsDeep(t *testing.T) {
	original := sampleStudent()
	clone := original.Clone()

	assert.Equal(t, original.SystemID, clone.SystemID)
	require.Len(t, clone.Enrollments, 2)

	// mutating the clone must not reach the original
	clone.Enrollments[0].MainSchool = false
	*clone.Enrollments[0].Period.Start = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	clone.Enrollments[0].ClassMemberships[0].Class.Teachers[0].Name = "changed"

	assert.True(t, original.Enrollments[0].MainSchool)
	assert.Equal(t, 2025, original.Enrollments[0].Period.Start.Year())
	assert.Equal(t, "Kari Hansen", original.Enrollments[0].ClassMemberships[0].Class.Teachers[0].Name)
}

func TestStudentCloneRepointsMainEnrollment(t *testing.T) {
	original := sampleStudent()
	clone := original.Clone()

	require.NotNil(t, clone.MainEnrollment)
	assert.Same(t, &clone.Enrollments[0], clone.MainEnrollment,
		"an aliased main enrollment must point into the cloned slice")
	assert.NotSame(t, original.MainEnrollment, clone.MainEnrollment)
}

func TestStudentCloneStandaloneMainEnrollment(t *testing.T) {
	detached := Enrollment{SystemID: "detached", School: SchoolRef{SchoolNumber: "7"}}

	original := sampleStudent()
	original.MainEnrollment = &detached

	clone := original.Clone()

	require.NotNil(t, clone.MainEnrollment)
	assert.Equal(t, "detached", clone.MainEnrollment.SystemID)
	assert.NotSame(t, &detached, clone.MainEnrollment)
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	snap := Snapshot{
		Users: []AppUser{
			{Active: true, FeideName: "kari@example.org", Directory: DirectoryProfile{ID: "guid-1"}},
		},
		Students: []Student{sampleStudent()},
		Access: []Access{
			{
				DirectoryUserID: "guid-1",
				Classes: []AccessEntry{
					{SystemID: "class-3a", SchoolNumber: "1", Type: AccessTypeAutoClass, Source: SourceAuto},
				},
			},
		},
		Schools: []School{
			{Name: "Example Upper Secondary", SchoolNumber: "1", Source: SourceAuto},
		},
	}

	clone := snap.Clone()

	clone.Users[0].Active = false
	clone.Access[0].Classes[0].SystemID = "changed"
	clone.Schools[0].Name = "changed"
	clone.Students[0].Enrollments[0].School.Name = "changed"

	assert.True(t, snap.Users[0].Active)
	assert.Equal(t, "class-3a", snap.Access[0].Classes[0].SystemID)
	assert.Equal(t, "Example Upper Secondary", snap.Schools[0].Name)
	assert.Equal(t, "Example Upper Secondary", snap.Students[0].Enrollments[0].School.Name)
}

func TestAccessEntryTypeAutomatic(t *testing.T) {
	assert.True(t, AccessTypeAutoClass.Automatic())
	assert.True(t, AccessTypeAutoTeachingGroup.Automatic())
	assert.True(t, AccessTypeAutoContactTeacherGroup.Automatic())
	assert.False(t, AccessTypeManualSchool.Automatic())
	assert.False(t, AccessTypeManualProgramArea.Automatic())
	assert.False(t, AccessTypeManualStudent.Automatic())
	assert.False(t, AccessEntryType("SOMETHING-ELSE").Automatic())
}

func TestPeriodActiveAt(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	assert.True(t, Period{}.ActiveAt(now))
	assert.True(t, Period{Start: &before}.ActiveAt(now))
	assert.True(t, Period{Start: &before, End: &after}.ActiveAt(now))
	assert.True(t, Period{Start: &now, End: &now}.ActiveAt(now), "window bounds are inclusive")
	assert.False(t, Period{Start: &after}.ActiveAt(now))
	assert.False(t, Period{End: &before}.ActiveAt(now))
}
