// Package reconcile implements the reconciliation engine. It takes the
// current persisted snapshot plus freshly fetched registry and directory
// state and produces the next snapshot: users mirrored from the directory,
// students with rebuilt automatic enrollments, derived automatic access
// grants, and lazily created school records. The engine performs no I/O; all
// data enters and leaves through its parameters and return value.
package reconcile

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GoEnrollSync/GoEnrollSync/internal/db/models"
	"github.com/GoEnrollSync/GoEnrollSync/internal/directory"
	"github.com/GoEnrollSync/GoEnrollSync/internal/registry"
)

// Options configures one reconciliation run.
type Options struct {
	// Now is the wall-clock instant captured for the whole run; every audit
	// stamp and end-dating decision uses this single value. Zero means
	// time.Now().UTC().
	Now time.Time
	// FeideSuffix is the domain suffix federated usernames are built with.
	FeideSuffix string
	// ActorName is the fallback name recorded on audit stamps.
	ActorName string
	// RunID identifies the run on audit stamps; generated when empty.
	RunID string
}

// Run reconciles the current snapshot against fresh upstream and directory
// state and returns the next snapshot. The inputs are never mutated. The only
// error conditions are structurally invalid options; defects in individual
// records are logged and skipped.
func Run(current models.Snapshot, upstream []registry.SchoolWithStudents, members []directory.Member, opts Options) (models.Snapshot, error) {
	if opts.FeideSuffix == "" {
		return models.Snapshot{}, ErrSuffixRequired
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	actor := opts.ActorName
	if actor == "" {
		actor = "enroll-sync"
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	st := &state{
		now: now,
		stamp: models.EditorStamp{
			By: models.EditorRef{
				DirectoryUserID: "system",
				FallbackName:    actor,
				RunID:           runID,
			},
			At: now,
		},
		suffix:          opts.FeideSuffix,
		upstreamSchools: make(map[string]bool, len(upstream)),
		validate:        validator.New(),
	}

	for _, block := range upstream {
		if block.School != nil && block.School.SchoolNumber.Value != "" {
			st.upstreamSchools[block.School.SchoolNumber.Value] = true
		}
	}

	log.Info().Str("run_id", runID).Msg("starting reconciliation of users, students and access")

	st.seed(current)
	st.syncDirectory(members)
	st.syncSchools(upstream)
	st.finalizeStudents()

	log.Info().
		Str("run_id", runID).
		Int("users", len(st.users)).
		Int("students", len(st.students)).
		Int("access", len(st.access)).
		Int("schools", len(st.schools)).
		Msg("reconciliation finished")

	return st.snapshot(), nil
}

// syncDirectory mirrors the directory member list into the user collection
// and deactivates users no longer present.
func (st *state) syncDirectory(members []directory.Member) {
	log.Info().Int("member_count", len(members)).Msg("syncing directory members")

	for _, member := range members {
		st.upsertUser(member)
	}

	st.deactivateMissing(members)
}

// syncSchools processes every upstream school block: normalizes enrollments,
// derives automatic access grants and upserts students.
func (st *state) syncSchools(upstream []registry.SchoolWithStudents) {
	for _, block := range upstream {
		if block.School == nil {
			log.Error().Msg("school block has no school payload, skipping")
			continue
		}

		if block.School.SchoolNumber.Value == "" {
			log.Error().Str("school", block.School.Name).Msg("school block has no school number, skipping")
			continue
		}

		school := models.SchoolRef{
			Name:         block.School.Name,
			SchoolNumber: block.School.SchoolNumber.Value,
		}

		log.Info().
			Str("school", school.Name).
			Str("school_number", school.SchoolNumber).
			Msg("processing enrollments for school")

		enrollments := compact(block.School.Enrollments, "enrollment", "school "+school.SchoolNumber)

		for _, raw := range enrollments {
			st.syncEnrollment(raw, school)
		}
	}
}

// syncEnrollment handles one upstream enrollment entry: validation, membership
// normalization, grant derivation and the student upsert.
func (st *state) syncEnrollment(raw *registry.Enrollment, school models.SchoolRef) {
	student := raw.Student
	label := studentLabel(student)

	if student.SystemID == nil || student.SystemID.Value == "" {
		log.Error().Str("student", label).Msg("student has no system id, skipping enrollment")
		return
	}

	if student.StudentNumber == nil || student.StudentNumber.Value == "" {
		log.Error().Str("student", label).Msg("student has no student number, skipping enrollment")
		return
	}

	if student.FeideName == nil || student.FeideName.Value == "" {
		log.Error().Str("student", label).Msg("student has no federated username, skipping enrollment")
		return
	}

	enrollment := models.Enrollment{
		SystemID:                       raw.SystemID.Value,
		School:                         school,
		Period:                         NormalizePeriod(raw.Period),
		ClassMemberships:               st.repackClassMemberships(raw.ClassMemberships, label),
		TeachingGroupMemberships:       st.repackTeachingGroupMemberships(raw.TeachingGroupMemberships, label),
		ContactTeacherGroupMemberships: st.repackContactTeacherGroupMemberships(raw.ContactTeacherGroupMemberships, label),
		MainSchool:                     raw.MainSchool != nil && *raw.MainSchool,
		Source:                         models.SourceAuto,
	}

	st.grantMembershipAccess(enrollment, school)
	st.upsertStudent(student, enrollment)
}

// grantMembershipAccess derives automatic grants from the enrollment's
// membership teacher rosters. Grants are only issued for memberships whose
// validity period is active at the captured run time; an expired membership
// must not hand out access.
func (st *state) grantMembershipAccess(enrollment models.Enrollment, school models.SchoolRef) {
	for _, membership := range enrollment.ClassMemberships {
		if !membership.Period.ActiveAt(st.now) {
			continue
		}

		for _, teacher := range membership.Class.Teachers {
			st.upsertTeacherAccess(teacher, models.AccessEntry{
				SystemID:     membership.Class.SystemID,
				SchoolNumber: school.SchoolNumber,
				Type:         models.AccessTypeAutoClass,
				Granted:      st.stamp,
				Source:       models.SourceAuto,
			})
		}
	}

	for _, membership := range enrollment.TeachingGroupMemberships {
		if !membership.Period.ActiveAt(st.now) {
			continue
		}

		for _, teacher := range membership.Group.Teachers {
			st.upsertTeacherAccess(teacher, models.AccessEntry{
				SystemID:     membership.Group.SystemID,
				SchoolNumber: school.SchoolNumber,
				Type:         models.AccessTypeAutoTeachingGroup,
				Granted:      st.stamp,
				Source:       models.SourceAuto,
			})
		}
	}

	for _, membership := range enrollment.ContactTeacherGroupMemberships {
		if !membership.Period.ActiveAt(st.now) {
			continue
		}

		for _, teacher := range membership.Group.Teachers {
			st.upsertTeacherAccess(teacher, models.AccessEntry{
				SystemID:     membership.Group.SystemID,
				SchoolNumber: school.SchoolNumber,
				Type:         models.AccessTypeAutoContactTeacherGroup,
				Granted:      st.stamp,
				Source:       models.SourceAuto,
			})
		}
	}
}

// upsertStudent resolves the target student by system id or national id,
// creates one when absent, refreshes its identity fields from upstream and
// appends the freshly built enrollment.
func (st *state) upsertStudent(student registry.StudentRecord, enrollment models.Enrollment) {
	idx := st.resolveStudent(student.SystemID.Value, student.Person.SSN.Value)

	if idx < 0 {
		st.students = append(st.students, models.Student{
			SystemID:      student.SystemID.Value,
			StudentNumber: student.StudentNumber.Value,
			SSN:           student.Person.SSN.Value,
			FeideName:     student.FeideName.Value,
			Name:          fullName(student.Person.Name),
			Enrollments:   []models.Enrollment{},
			Created:       st.stamp,
			Modified:      st.stamp,
			Source:        models.SourceAuto,
		})
		idx = len(st.students) - 1

		log.Info().Str("student", st.students[idx].Name).Msg("creating student from registry data")
	} else {
		target := &st.students[idx]

		// The match keys are themselves refreshed from upstream; see
		// resolveStudent about the identity hazard this carries.
		target.SystemID = student.SystemID.Value
		target.SSN = student.Person.SSN.Value
		target.StudentNumber = student.StudentNumber.Value
		target.FeideName = student.FeideName.Value
		target.Name = fullName(student.Person.Name)
		target.Modified = st.stamp
		target.Source = models.SourceAuto
	}

	st.students[idx].Enrollments = append(st.students[idx].Enrollments, enrollment)
}

// finalizeStudents is the post-pass over every student with enrollments:
// manual enrollments superseded by automatic ones are end-dated and demoted,
// unknown schools are created, the single-main-school invariant is checked
// and the main enrollment reference is set.
func (st *state) finalizeStudents() {
	for i := range st.students {
		student := &st.students[i]

		if len(student.Enrollments) == 0 {
			continue
		}

		st.supersedeManualEnrollments(student)
		st.registerSchools(student)

		mainCount := 0

		for _, enrollment := range student.Enrollments {
			if enrollment.MainSchool {
				mainCount++
			}
		}

		if mainCount > 1 {
			log.Warn().
				Str("student", student.Name).
				Str("feide_name", student.FeideName).
				Int("count", mainCount).
				Msg("student has more than one enrollment flagged as main school")
		}

		student.MainEnrollment = nil

		for j := range student.Enrollments {
			if student.Enrollments[j].MainSchool {
				student.MainEnrollment = &student.Enrollments[j]
				break
			}
		}
	}
}

// supersedeManualEnrollments demotes and end-dates manual enrollments that an
// automatic enrollment now covers: once the registry carries the school
// relationship, it owns it.
func (st *state) supersedeManualEnrollments(student *models.Student) {
	type autoSchool struct {
		schoolNumber string
		mainSchool   bool
	}

	autos := make([]autoSchool, 0, len(student.Enrollments))

	for _, enrollment := range student.Enrollments {
		if enrollment.Source == models.SourceAuto {
			autos = append(autos, autoSchool{
				schoolNumber: enrollment.School.SchoolNumber,
				mainSchool:   enrollment.MainSchool,
			})
		}
	}

	for j := range student.Enrollments {
		enrollment := &student.Enrollments[j]

		if enrollment.Source != models.SourceManual {
			continue
		}

		if enrollment.MainSchool {
			for _, auto := range autos {
				if auto.mainSchool {
					log.Warn().
						Str("student", student.Name).
						Str("school_number", enrollment.School.SchoolNumber).
						Msg("demoting manual enrollment: an automatic enrollment is flagged as main school")

					enrollment.MainSchool = false

					break
				}
			}
		}

		// already ended, leave untouched
		if enrollment.Period.End != nil && enrollment.Period.End.Before(st.now) {
			continue
		}

		for _, auto := range autos {
			if auto.schoolNumber != enrollment.School.SchoolNumber {
				continue
			}

			end := st.now
			enrollment.Period.End = &end
			enrollment.MainSchool = false

			log.Warn().
				Str("student", student.Name).
				Str("school_number", enrollment.School.SchoolNumber).
				Msg("end-dating manual enrollment: the registry now owns this school relationship")

			break
		}
	}
}

// registerSchools creates school records for every school number referenced
// by the student's enrollments that is not yet known. Provenance is AUTO when
// the number appeared in this run's upstream fetch, MANUAL otherwise.
func (st *state) registerSchools(student *models.Student) {
	for _, enrollment := range student.Enrollments {
		if st.knownSchool(enrollment.School.SchoolNumber) {
			continue
		}

		source := models.SourceManual
		if st.upstreamSchools[enrollment.School.SchoolNumber] {
			source = models.SourceAuto
		}

		st.schools = append(st.schools, models.School{
			Name:         enrollment.School.Name,
			SchoolNumber: enrollment.School.SchoolNumber,
			Created:      st.stamp,
			Modified:     st.stamp,
			Source:       source,
		})
	}
}
