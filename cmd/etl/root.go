package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/datacentral/retail-etl/internal/config"
	"github.com/datacentral/retail-etl/internal/database"
	"github.com/datacentral/retail-etl/internal/logger"
	"github.com/datacentral/retail-etl/internal/pipeline"
	"github.com/datacentral/retail-etl/internal/report"
)

// setup loads config and builds the logger shared by every command.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	log := logger.New(cfg.Primary.Env, cfg.Logging.Level)
	return cfg, log, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "etl",
		Short:         "Retail data centralisation pipeline",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newMigrateCmd(), newRunCmd(), newReportCmd(), newScheduleCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply target schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			creds, err := config.LoadCredentials(cfg.Database.CredsFile, cfg.Database.TargetKey)
			if err != nil {
				return err
			}

			if err := database.Migrate(cmd.Context(), &log, cfg, creds); err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var datasets []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline (all datasets, or --dataset selections)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			runner, err := pipeline.New(cmd.Context(), cfg, &log)
			if err != nil {
				log.Error().Err(err).Msg("failed to initialize pipeline")
				return err
			}
			defer runner.Close()

			if err := runner.Run(cmd.Context(), datasets); err != nil {
				log.Error().Err(err).Msg("pipeline run failed")
				return err
			}

			log.Info().Msg("pipeline run complete")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&datasets, "dataset", nil,
		"datasets to run (users, cards, stores, products, date_events, orders); default all")
	return cmd
}

func newReportCmd() *cobra.Command {
	var name string
	var all bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run analytical reports against the target schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			if !all && name == "" {
				return fmt.Errorf("pass --name <report> or --all (reports: %s)", reportNames())
			}

			creds, err := config.LoadCredentials(cfg.Database.CredsFile, cfg.Database.TargetKey)
			if err != nil {
				return err
			}

			db, err := database.New(cmd.Context(), cfg, creds, &log)
			if err != nil {
				return err
			}
			defer db.Close()

			reports := report.All()
			if !all {
				selected, ok := report.ByName(name)
				if !ok {
					return fmt.Errorf("unknown report %q (reports: %s)", name, reportNames())
				}
				reports = []report.Report{selected}
			}

			for _, r := range reports {
				table, err := r.Run(cmd.Context(), db.Pool)
				if err != nil {
					log.Error().Err(err).Str("report", r.Name).Msg("report failed")
					return err
				}
				if err := report.Render(os.Stdout, table); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "report to run")
	cmd.Flags().BoolVar(&all, "all", false, "run the whole report suite")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the full pipeline on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			scheduler := cron.New()
			_, err = scheduler.AddFunc(cronSpec, func() {
				ctx := context.Background()

				runner, err := pipeline.New(ctx, cfg, &log)
				if err != nil {
					log.Error().Err(err).Msg("scheduled run failed to initialize")
					return
				}
				defer runner.Close()

				if err := runner.Run(ctx, nil); err != nil {
					log.Error().Err(err).Msg("scheduled run failed")
					return
				}
				log.Info().Msg("scheduled run complete")
			})
			if err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
			}

			log.Info().Str("cron", cronSpec).Msg("scheduler started")
			scheduler.Start()

			// Foreground until interrupted; in-flight runs finish.
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			<-scheduler.Stop().Done()
			log.Info().Msg("scheduler stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "0 2 * * *", "cron expression for pipeline runs")
	return cmd
}

func reportNames() string {
	names := ""
	for i, r := range report.All() {
		if i > 0 {
			names += ", "
		}
		names += r.Name
	}
	return names
}
