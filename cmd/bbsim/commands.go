package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/bbctl/internal/admin"
	"github.com/danmuck/bbctl/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	runEvents int
	runServe  bool

	templateOutput string
	templateForce  bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the simulated operation stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("events") {
				cfg.Sim.Events = runEvents
				if err := config.Validate(cfg); err != nil {
					return err
				}
			}
			if runServe {
				cfg.Admin.Enabled = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, runServe)
		},
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			if _, err := config.Load(configPath); err != nil {
				return err
			}
			log.Info().Str("path", configPath).Msg("config valid")
			return nil
		},
	}

	templateCmd = &cobra.Command{
		Use:   "template",
		Short: "Write a config template with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			if templateOutput == "" {
				out, err := config.Template(config.Default())
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if err := config.WriteTemplate(templateOutput, templateForce); err != nil {
				return err
			}
			log.Info().Str("path", templateOutput).Msg("wrote config template")
			return nil
		},
	}
)

func init() {
	runCmd.Flags().IntVarP(&runEvents, "events", "n", 0, "override sim.events")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "keep the admin surface up after the run until interrupted")
	templateCmd.Flags().StringVarP(&templateOutput, "output", "o", "", "output path (stdout when empty)")
	templateCmd.Flags().BoolVar(&templateForce, "force", false, "overwrite an existing file")
}

func resolveConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// run executes the scenario and, when the admin surface is enabled, serves it
// alongside. With serve set the process stays up after the scenario ends.
func run(ctx context.Context, cfg config.Config, serve bool) error {
	sc, err := newScenario(cfg)
	if err != nil {
		return err
	}
	defer sc.Close()

	if !cfg.Admin.Enabled {
		return sc.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	srv := admin.NewServer(cfg.Sim.Node, cfg.Admin.Addr, cfg.Admin.CorsOrigins, sc.Runner())
	g.Go(func() error {
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		if err := sc.Run(gctx); err != nil {
			return err
		}
		if !serve {
			cancel()
			return nil
		}
		<-gctx.Done()
		return nil
	})
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
