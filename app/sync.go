package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GoEnrollSync/GoEnrollSync/internal/config"
	"github.com/GoEnrollSync/GoEnrollSync/internal/daemon"
	"github.com/GoEnrollSync/GoEnrollSync/internal/logger"
)

func init() { //nolint: gochecknoinits
	syncCmd.Flags().StringVar(&configPath, "config", "etc/", "Path to the configuration directory")

	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a single reconciliation and exit",
	PreRun: func(_ *cobra.Command, _ []string) {
		if cfg, err = config.ReadConfig(configPath); err != nil {
			panic(err)
		}

		if err = logger.Init(cfg.Log); err != nil {
			panic(err)
		}
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		d := daemon.New(&cfg)

		res, err := d.RunSync(cmd.Context())
		if err != nil {
			return err
		}

		log.Info().
			Str("run_id", res.RunID).
			Int("users", res.Users).
			Int("students", res.Students).
			Int("access", res.Access).
			Int("schools", res.Schools).
			Dur("duration", res.Duration).
			Msg("sync finished")

		return nil
	},
}
