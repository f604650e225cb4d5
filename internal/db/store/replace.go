package store

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const insertBatchSize = 200

// ErrSwapConflict is returned when both the previous and the staged table of
// a collection exist; a crashed swap left the collection in a state that
// needs manual intervention.
var ErrSwapConflict = errors.New("both previous and staged collection tables exist, manual intervention required")

// replaceCollection swaps a new set of documents in for a collection:
// the retired previous table is recycled as the staging table, filled with
// the new documents, and renamed into place while the current table becomes
// the new previous one. Readers of the current table see either the old or
// the new collection at every point.
func (s *Store) replaceCollection(name string, docs []document) error {
	migrator := s.db.Migrator()

	previousName := name + "_previous"
	stagedName := name + "_new"

	hasCurrent := migrator.HasTable(name)
	hasPrevious := migrator.HasTable(previousName)
	hasStaged := migrator.HasTable(stagedName)

	if hasPrevious && hasStaged {
		log.Error().Str("collection", name).Msg("collection swap left both previous and staged tables behind")
		return errors.Wrapf(ErrSwapConflict, "collection %s", name)
	}

	if hasPrevious {
		if err := s.renameTableWithIndex(previousName, stagedName); err != nil {
			return err
		}
	}

	if err := s.db.Table(stagedName).AutoMigrate(&document{}); err != nil {
		return errors.Wrapf(err, "failed to prepare staged table %s", stagedName)
	}

	if err := s.db.Table(stagedName).Where("1 = 1").Delete(&document{}).Error; err != nil {
		return errors.Wrapf(err, "failed to empty staged table %s", stagedName)
	}

	if len(docs) > 0 {
		if err := s.db.Table(stagedName).CreateInBatches(docs, insertBatchSize).Error; err != nil {
			return errors.Wrapf(err, "failed to fill staged table %s", stagedName)
		}
	}

	if hasCurrent {
		if err := s.renameTableWithIndex(name, previousName); err != nil {
			return err
		}
	}

	if err := s.renameTableWithIndex(stagedName, name); err != nil {
		return err
	}

	log.Info().Str("collection", name).Int("count", len(docs)).Msg("replaced collection")

	return nil
}

// renameTableWithIndex renames a table and keeps its key index named after
// the table. Index names are schema-scoped on SQLite and travel with table
// renames, so a stale name on a recycled table collides with the index the
// live table owns when the staged table is migrated.
func (s *Store) renameTableWithIndex(from, to string) error {
	if err := s.db.Migrator().RenameTable(from, to); err != nil {
		return errors.Wrapf(err, "failed to rename %s to %s", from, to)
	}

	migrator := s.db.Table(to).Migrator()
	if migrator.HasIndex(&document{}, keyIndexName(from)) {
		if err := migrator.RenameIndex(&document{}, keyIndexName(from), keyIndexName(to)); err != nil {
			return errors.Wrapf(err, "failed to rename index on %s", to)
		}
	}

	return nil
}

func keyIndexName(table string) string {
	return "idx_" + table + "_key"
}
