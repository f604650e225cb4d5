// Package store implements the persistence client for the four snapshot
// collections. Records are kept as JSON documents in one table per
// collection; Replace* writes a staged table and swaps it in with renames so
// readers always see either the old or the new collection, never a mix.
package store

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoEnrollSync/GoEnrollSync/internal/db/models"
)

// Collection table names.
const (
	CollectionUsers    = "users"
	CollectionStudents = "students"
	CollectionAccess   = "access"
	CollectionSchools  = "schools"
)

// document is one persisted record: a lookup key and the JSON payload.
type document struct {
	ID      uint64 `gorm:"primaryKey"`
	Key     string `gorm:"size:191;index"`
	Payload string `gorm:"type:longtext"`
}

// Store reads and replaces the snapshot collections.
type Store struct {
	db *gorm.DB
}

// New creates a store and migrates the collection tables.
func New(db *gorm.DB) (*Store, error) {
	s := &Store{db: db}

	for _, name := range []string{CollectionUsers, CollectionStudents, CollectionAccess, CollectionSchools} {
		if err := db.Table(name).AutoMigrate(&document{}); err != nil {
			return nil, errors.Wrapf(err, "failed to migrate collection %s", name)
		}
	}

	return s, nil
}

func readCollection[T any](db *gorm.DB, name string) ([]T, error) {
	var docs []document

	if err := db.Table(name).Order("id").Find(&docs).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to read collection %s", name)
	}

	out := make([]T, 0, len(docs))

	for _, doc := range docs {
		var item T
		if err := json.Unmarshal([]byte(doc.Payload), &item); err != nil {
			return nil, errors.Wrapf(err, "failed to decode document %d in collection %s", doc.ID, name)
		}

		out = append(out, item)
	}

	return out, nil
}

func encodeCollection[T any](items []T, key func(T) string) ([]document, error) {
	docs := make([]document, 0, len(items))

	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode document")
		}

		docs = append(docs, document{Key: key(item), Payload: string(payload)})
	}

	return docs, nil
}

// Users reads the user collection.
func (s *Store) Users() ([]models.AppUser, error) {
	return readCollection[models.AppUser](s.db, CollectionUsers)
}

// ReplaceUsers swaps in a new user collection.
func (s *Store) ReplaceUsers(users []models.AppUser) error {
	docs, err := encodeCollection(users, func(u models.AppUser) string { return u.Directory.ID })
	if err != nil {
		return err
	}

	return s.replaceCollection(CollectionUsers, docs)
}

// Students reads the student collection.
func (s *Store) Students() ([]models.Student, error) {
	return readCollection[models.Student](s.db, CollectionStudents)
}

// ReplaceStudents swaps in a new student collection.
func (s *Store) ReplaceStudents(students []models.Student) error {
	docs, err := encodeCollection(students, func(st models.Student) string { return st.SystemID })
	if err != nil {
		return err
	}

	return s.replaceCollection(CollectionStudents, docs)
}

// Access reads the access collection.
func (s *Store) Access() ([]models.Access, error) {
	return readCollection[models.Access](s.db, CollectionAccess)
}

// ReplaceAccess swaps in a new access collection.
func (s *Store) ReplaceAccess(access []models.Access) error {
	docs, err := encodeCollection(access, func(a models.Access) string { return a.DirectoryUserID })
	if err != nil {
		return err
	}

	return s.replaceCollection(CollectionAccess, docs)
}

// Schools reads the school collection.
func (s *Store) Schools() ([]models.School, error) {
	return readCollection[models.School](s.db, CollectionSchools)
}

// ReplaceSchools swaps in a new school collection.
func (s *Store) ReplaceSchools(schools []models.School) error {
	docs, err := encodeCollection(schools, func(sc models.School) string { return sc.SchoolNumber })
	if err != nil {
		return err
	}

	return s.replaceCollection(CollectionSchools, docs)
}

// Load reads all four collections as one snapshot.
func (s *Store) Load() (models.Snapshot, error) {
	users, err := s.Users()
	if err != nil {
		return models.Snapshot{}, err
	}

	students, err := s.Students()
	if err != nil {
		return models.Snapshot{}, err
	}

	access, err := s.Access()
	if err != nil {
		return models.Snapshot{}, err
	}

	schools, err := s.Schools()
	if err != nil {
		return models.Snapshot{}, err
	}

	return models.Snapshot{
		Users:    users,
		Students: students,
		Access:   access,
		Schools:  schools,
	}, nil
}

// Replace swaps in all four collections of a snapshot.
func (s *Store) Replace(snap models.Snapshot) error {
	if err := s.ReplaceUsers(snap.Users); err != nil {
		return err
	}

	if err := s.ReplaceStudents(snap.Students); err != nil {
		return err
	}

	if err := s.ReplaceAccess(snap.Access); err != nil {
		return err
	}

	return s.ReplaceSchools(snap.Schools)
}
