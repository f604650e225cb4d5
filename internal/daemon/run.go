package daemon

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoEnrollSync/GoEnrollSync/internal/reconcile"
	"github.com/GoEnrollSync/GoEnrollSync/internal/registry"
	synchandler "github.com/GoEnrollSync/GoEnrollSync/internal/web/handler/sync"
)

// RunSync executes one full reconciliation run: fetch both sources, merge
// them with the persisted snapshot and swap the result into the database.
func (d *Daemon) RunSync(ctx context.Context) (synchandler.Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	now := start.UTC()

	log.Info().Str("run_id", runID).Msg("sync run started")

	upstream, err := d.fetchUpstream(ctx)
	if err != nil {
		return synchandler.Result{}, errors.Wrap(err, "fetching registry schools")
	}

	members, err := d.directory.FetchMembers()
	if err != nil {
		return synchandler.Result{}, errors.Wrap(err, "fetching directory members")
	}

	current, err := d.store.Load()
	if err != nil {
		return synchandler.Result{}, errors.Wrap(err, "loading current snapshot")
	}

	next, err := reconcile.Run(current, upstream, members, reconcile.Options{
		Now:         now,
		FeideSuffix: d.cfg.Sync.FeideSuffix,
		ActorName:   d.cfg.Sync.ActorName,
		RunID:       runID,
	})
	if err != nil {
		return synchandler.Result{}, errors.Wrap(err, "reconciling snapshot")
	}

	if err = d.store.Replace(next); err != nil {
		return synchandler.Result{}, errors.Wrap(err, "replacing snapshot")
	}

	if d.archiver != nil {
		if err = d.archiver.Store(ctx, next, runID, now); err != nil {
			// the database swap already happened, the run itself succeeded
			log.Error().Err(err).Str("run_id", runID).Msg("failed to archive snapshot")
		}
	}

	return synchandler.Result{
		RunID:    runID,
		Users:    len(next.Users),
		Students: len(next.Students),
		Access:   len(next.Access),
		Schools:  len(next.Schools),
		Duration: time.Since(start),
	}, nil
}

// fetchUpstream lists the registry schools and loads the enrollment tree of
// every school carrying a school number.
func (d *Daemon) fetchUpstream(ctx context.Context) ([]registry.SchoolWithStudents, error) {
	schools, err := d.registry.GetSchools(ctx)
	if err != nil {
		return nil, err
	}

	upstream := make([]registry.SchoolWithStudents, 0, len(schools))

	for _, school := range schools {
		if school.SchoolNumber == nil || school.SchoolNumber.Value == "" {
			log.Warn().Str("school", school.Name).Msg("skipping school without school number")
			continue
		}

		tree, err := d.registry.GetSchoolWithStudents(ctx, school.SchoolNumber.Value)
		if err != nil {
			return nil, err
		}

		upstream = append(upstream, tree)
	}

	return upstream, nil
}
