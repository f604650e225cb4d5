package reconcile

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GoEnrollSync/GoEnrollSync/internal/db/models"
	"github.com/GoEnrollSync/GoEnrollSync/internal/directory"
)

// state is the working set of one reconciliation run. It is an explicit
// accumulator threaded through the phases: all lookups and upserts during a
// run operate on these copies, never on the caller's collections.
type state struct {
	now   time.Time
	stamp models.EditorStamp

	suffix string

	users    []models.AppUser
	students []models.Student
	access   []models.Access
	schools  []models.School

	// upstreamSchools records which school numbers appeared in this run's
	// fetch, deciding the provenance of lazily created school records.
	upstreamSchools map[string]bool

	validate *validator.Validate
}

// seed deep-copies the current snapshot and strips everything the run
// rebuilds: non-manual student enrollments and automatic access entries.
func (st *state) seed(current models.Snapshot) {
	working := current.Clone()

	st.users = working.Users
	st.students = working.Students
	st.access = working.Access
	st.schools = working.Schools

	for i := range st.students {
		manual := st.students[i].Enrollments[:0]

		for _, enrollment := range st.students[i].Enrollments {
			if enrollment.Source == models.SourceManual {
				manual = append(manual, enrollment)
			}
		}

		st.students[i].Enrollments = manual
	}

	for i := range st.access {
		st.access[i].Classes = dropAutomatic(st.access[i].Classes)
		st.access[i].TeachingGroups = dropAutomatic(st.access[i].TeachingGroups)
		st.access[i].ContactTeacherGroups = dropAutomatic(st.access[i].ContactTeacherGroups)
	}
}

func dropAutomatic(entries []models.AccessEntry) []models.AccessEntry {
	kept := entries[:0]

	for _, entry := range entries {
		if !entry.Type.Automatic() {
			kept = append(kept, entry)
		}
	}

	return kept
}

// upsertUser creates or updates an application user from a directory member.
// Members missing required attributes contribute nothing this run.
func (st *state) upsertUser(member directory.Member) {
	idx := -1

	for i := range st.users {
		if st.users[i].Directory.ID == member.ID {
			idx = i
			break
		}
	}

	if idx < 0 {
		if err := st.validate.Struct(member); err != nil {
			log.Error().
				Err(err).
				Str("display_name", member.DisplayName).
				Str("principal_name", member.PrincipalName).
				Msg("directory member is missing required attributes, skipping")

			return
		}

		log.Info().Str("display_name", member.DisplayName).Msg("creating user from directory member")

		st.users = append(st.users, models.AppUser{
			Active:    member.Enabled,
			FeideName: member.AccountName + "@" + st.suffix,
			Directory: models.DirectoryProfile{
				ID:            member.ID,
				PrincipalName: member.PrincipalName,
				DisplayName:   member.DisplayName,
				Company:       member.Company,
				Department:    member.Department,
			},
			Created:  st.stamp,
			Modified: st.stamp,
			Source:   models.SourceAuto,
		})

		return
	}

	user := &st.users[idx]

	if member.PrincipalName != "" {
		user.Directory.PrincipalName = member.PrincipalName
	}

	if member.DisplayName != "" {
		user.Directory.DisplayName = member.DisplayName
	}

	if member.Company != "" {
		user.Directory.Company = member.Company
	}

	if member.Department != "" {
		user.Directory.Department = member.Department
	}

	if member.AccountName != "" {
		user.FeideName = member.AccountName + "@" + st.suffix
	}

	user.Active = member.Enabled
	user.Modified = st.stamp
	user.Source = models.SourceAuto
}

// deactivateMissing sets active=false on every user whose directory id is
// absent from the current member list. Removed accounts are never deleted.
func (st *state) deactivateMissing(members []directory.Member) {
	present := make(map[string]bool, len(members))
	for _, member := range members {
		present[member.ID] = true
	}

	for i := range st.users {
		if present[st.users[i].Directory.ID] {
			continue
		}

		if st.users[i].Active {
			log.Info().
				Str("display_name", st.users[i].Directory.DisplayName).
				Msg("deactivating user absent from directory member list")
		}

		st.users[i].Active = false
	}
}

// findUserByFeideName resolves a federated username to a working-set user,
// case-insensitively. Returns nil when no user matches.
func (st *state) findUserByFeideName(feideName string) *models.AppUser {
	for i := range st.users {
		if strings.EqualFold(st.users[i].FeideName, feideName) {
			return &st.users[i]
		}
	}

	return nil
}

// resolveStudent finds a working-set student by upstream system id or
// national id. Either match is sufficient. Returns -1 when absent.
//
// The caller subsequently overwrites both match keys with fresh upstream
// values. If a student's system id and SSN ever change in the same window
// between two runs, a later run can silently split or merge identities; this
// mirrors the upstream contract and is deliberately left uncorrected.
func (st *state) resolveStudent(systemID, ssn string) int {
	for i := range st.students {
		if st.students[i].SystemID == systemID || st.students[i].SSN == ssn {
			return i
		}
	}

	return -1
}

// upsertTeacherAccess appends an automatic grant entry to the teacher's
// access record, creating the record on first grant. Entries are
// deduplicated by system id within their category.
func (st *state) upsertTeacherAccess(teacher models.Teacher, entry models.AccessEntry) {
	if teacher.DirectoryUserID == "" {
		log.Warn().
			Str("teacher", teacher.Name).
			Str("feide_name", teacher.FeideName).
			Msg("cannot grant access for teacher without a directory-linked user")

		return
	}

	idx := -1

	for i := range st.access {
		if st.access[i].DirectoryUserID == teacher.DirectoryUserID {
			idx = i
			break
		}
	}

	if idx < 0 {
		st.access = append(st.access, models.Access{
			DirectoryUserID:      teacher.DirectoryUserID,
			Name:                 teacher.Name,
			Schools:              []models.AccessEntry{},
			ProgramAreas:         []models.AccessEntry{},
			Classes:              []models.AccessEntry{},
			TeachingGroups:       []models.AccessEntry{},
			ContactTeacherGroups: []models.AccessEntry{},
			Students:             []models.AccessEntry{},
		})
		idx = len(st.access) - 1
	}

	var target *[]models.AccessEntry

	switch entry.Type {
	case models.AccessTypeAutoClass:
		target = &st.access[idx].Classes
	case models.AccessTypeAutoTeachingGroup:
		target = &st.access[idx].TeachingGroups
	case models.AccessTypeAutoContactTeacherGroup:
		target = &st.access[idx].ContactTeacherGroups
	case models.AccessTypeManualSchool, models.AccessTypeManualProgramArea, models.AccessTypeManualStudent:
		return // manual grants are never written by the sync
	default:
		return
	}

	for _, existing := range *target {
		if existing.SystemID == entry.SystemID {
			return
		}
	}

	*target = append(*target, entry)

	log.Info().
		Str("teacher", teacher.Name).
		Str("system_id", entry.SystemID).
		Str("type", string(entry.Type)).
		Msg("added automatic access grant")
}

// knownSchool reports whether a school record for the number already exists.
func (st *state) knownSchool(schoolNumber string) bool {
	for i := range st.schools {
		if st.schools[i].SchoolNumber == schoolNumber {
			return true
		}
	}

	return false
}

func (st *state) snapshot() models.Snapshot {
	return models.Snapshot{
		Users:    st.users,
		Students: st.students,
		Access:   st.access,
		Schools:  st.schools,
	}
}
