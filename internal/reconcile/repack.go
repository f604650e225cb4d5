package reconcile

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GoEnrollSync/GoEnrollSync/internal/db/models"
	"github.com/GoEnrollSync/GoEnrollSync/internal/registry"
)

// compact drops nil slots from an upstream list, logging which resource owned
// the missing data. A nil list is treated as "no data".
func compact[T any](in []*T, kind, owner string) []*T {
	if in == nil {
		log.Warn().Str("owner", owner).Str("kind", kind).Msg("resource has no entries of this kind")
		return nil
	}

	out := make([]*T, 0, len(in))

	for _, item := range in {
		if item == nil {
			log.Warn().Str("owner", owner).Str("kind", kind).Msg("dropping null entry")
			continue
		}

		out = append(out, item)
	}

	return out
}

// studentLabel names an upstream student for log output, falling back through
// the identifiers that may be present.
func studentLabel(student registry.StudentRecord) string {
	if student.FeideName != nil && student.FeideName.Value != "" {
		return student.FeideName.Value
	}

	if student.StudentNumber != nil && student.StudentNumber.Value != "" {
		return student.StudentNumber.Value
	}

	return fullName(student.Person.Name)
}

// fullName joins a structured person name, including the middle name when set.
func fullName(name registry.PersonName) string {
	parts := make([]string, 0, 3)
	parts = append(parts, name.First)

	if name.Middle != nil && *name.Middle != "" {
		parts = append(parts, *name.Middle)
	}

	parts = append(parts, name.Last)

	return strings.Join(parts, " ")
}

// repackTeachers maps teaching assignments to teacher records, resolving each
// teacher's directory-linked user by federated username. Assignments without
// a federated username are skipped; an unresolved username yields a teacher
// with an empty directory link, never a fabricated one.
func (st *state) repackTeachers(assignments []*registry.TeachingAssignment, owner string) []models.Teacher {
	valid := compact(assignments, "teaching assignment", owner)

	teachers := make([]models.Teacher, 0, len(valid))

	for _, assignment := range valid {
		if assignment.Resource.FeideName == nil || assignment.Resource.FeideName.Value == "" {
			log.Warn().
				Str("system_id", assignment.SystemID.Value).
				Msg("teaching assignment has no federated username, skipping")

			continue
		}

		feideName := assignment.Resource.FeideName.Value

		name := "unknown teacher"
		if assignment.Resource.Person != nil {
			name = fullName(assignment.Resource.Person.Name)
		}

		var directoryUserID string
		if user := st.findUserByFeideName(feideName); user != nil {
			directoryUserID = user.Directory.ID
		} else {
			log.Warn().
				Str("feide_name", feideName).
				Msg("no directory-linked user for teacher, keeping empty identity link")
		}

		teachers = append(teachers, models.Teacher{
			DirectoryUserID: directoryUserID,
			SystemID:        assignment.Resource.SystemID.Value,
			FeideName:       feideName,
			Name:            name,
		})
	}

	return teachers
}

// repackClassMemberships normalizes the class memberships of one enrollment.
func (st *state) repackClassMemberships(in []*registry.ClassMembership, owner string) []models.ClassMembership {
	valid := compact(in, "class membership", owner)

	out := make([]models.ClassMembership, 0, len(valid))

	for _, membership := range valid {
		out = append(out, models.ClassMembership{
			SystemID: membership.SystemID.Value,
			Period:   NormalizePeriod(membership.Period),
			Class: models.ClassGroup{
				SystemID: membership.Class.SystemID.Value,
				Name:     membership.Class.Name,
				Teachers: st.repackTeachers(membership.Class.TeachingAssignments, owner),
				Source:   models.SourceAuto,
			},
		})
	}

	return out
}

// repackTeachingGroupMemberships normalizes the teaching-group memberships of
// one enrollment.
func (st *state) repackTeachingGroupMemberships(in []*registry.TeachingGroupMembership, owner string) []models.TeachingGroupMembership {
	valid := compact(in, "teaching-group membership", owner)

	out := make([]models.TeachingGroupMembership, 0, len(valid))

	for _, membership := range valid {
		out = append(out, models.TeachingGroupMembership{
			SystemID: membership.SystemID.Value,
			Period:   NormalizePeriod(membership.Period),
			Group: models.TeachingGroup{
				SystemID: membership.Group.SystemID.Value,
				Name:     membership.Group.Name,
				Teachers: st.repackTeachers(membership.Group.TeachingAssignments, owner),
				Source:   models.SourceAuto,
			},
		})
	}

	return out
}

// repackContactTeacherGroupMemberships normalizes the contact-teacher-group
// memberships of one enrollment.
func (st *state) repackContactTeacherGroupMemberships(in []*registry.ContactTeacherGroupMembership, owner string) []models.ContactTeacherGroupMembership {
	valid := compact(in, "contact-teacher-group membership", owner)

	out := make([]models.ContactTeacherGroupMembership, 0, len(valid))

	for _, membership := range valid {
		out = append(out, models.ContactTeacherGroupMembership{
			SystemID: membership.SystemID.Value,
			Period:   NormalizePeriod(membership.Period),
			Group: models.ContactTeacherGroup{
				SystemID: membership.Group.SystemID.Value,
				Name:     membership.Group.Name,
				Teachers: st.repackTeachers(membership.Group.TeachingAssignments, owner),
				Source:   models.SourceAuto,
			},
		})
	}

	return out
}
