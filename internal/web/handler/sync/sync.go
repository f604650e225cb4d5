// Package sync provides the HTTP trigger for a reconciliation run.
package sync

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoEnrollSync/GoEnrollSync/internal/config"
)

const (
	// Path is the path of the sync trigger endpoint.
	Path = "/api/sync"
)

// Result summarizes a completed reconciliation run.
type Result struct {
	RunID    string `json:"runId"`
	Users    int    `json:"users"`
	Students int    `json:"students"`
	Access   int    `json:"access"`
	Schools  int    `json:"schools"`

	Duration time.Duration `json:"-"`
}

// Runner executes a full reconciliation run.
type Runner interface {
	RunSync(ctx context.Context) (Result, error)
}

// Service is the sync trigger handler service.
type Service struct {
	cfg    *config.Config
	runner Runner
}

// Handler is the sync trigger handler.
var Handler = Service{}

// Init initializes the sync trigger handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, runner Runner) error {
	if app == nil || cfg == nil || runner == nil {
		return errors.New("app, cfg or runner is nil")
	}

	s.cfg = cfg
	s.runner = runner

	app.Post(Path, s.Post)

	return nil
}

// Post runs a reconciliation and responds with the run summary.
func (s *Service) Post(c *fiber.Ctx) error {
	res, err := s.runner.RunSync(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("sync run failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("users", res.Users).
		Int("students", res.Students).
		Int("access", res.Access).
		Int("schools", res.Schools).
		Dur("duration", res.Duration).
		Msg("sync run finished")

	return c.JSON(fiber.Map{
		"runId":    res.RunID,
		"users":    res.Users,
		"students": res.Students,
		"access":   res.Access,
		"schools":  res.Schools,
		"duration": res.Duration.String(),
	})
}
