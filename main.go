package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/triskis777/ketaverso-bot/aliases"
	"github.com/triskis777/ketaverso-bot/config"
	"github.com/triskis777/ketaverso-bot/handlers"
	"github.com/triskis777/ketaverso-bot/health"
	"github.com/triskis777/ketaverso-bot/logging"
	"github.com/triskis777/ketaverso-bot/metrics"
	"github.com/triskis777/ketaverso-bot/presenter"
	"github.com/triskis777/ketaverso-bot/scheduler"
	"github.com/triskis777/ketaverso-bot/server"
	"github.com/triskis777/ketaverso-bot/sessions"
	"github.com/triskis777/ketaverso-bot/validation"
)

var (
	envFile   string
	verbose   bool
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bot",
	Short: "PsychonautWiki substance lookup bot",
	Long: `Resolves substance names typed by chat users into PsychonautWiki records.

Run without arguments to start the command server (same as "bot serve").`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appConfig = cfg

		opts := logging.Options{
			Dir:            cfg.LogDir,
			Level:          cfg.LogLevel,
			RetentionWeeks: cfg.LogRetentionWeeks,
			MaxFileSize:    cfg.MaxLogFileSize,
		}
		if cmd.Name() == resolveCmd.Name() {
			// keep stdout for the result
			opts = logging.Options{Level: "error", Console: os.Stderr}
			if verbose {
				opts.Level = "debug"
			}
		}
		logging.InitLogger(opts)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), appConfig)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the command server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), appConfig)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	resolveCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline steps to stderr")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resolveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe runs the HTTP server, the alias file watcher and the scheduler until SIGINT/SIGTERM
func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg)
	if err != nil {
		logging.Error("Failed to initialize", "error", err)
		return err
	}

	views := sessions.NewStore[presenter.State](cfg.ViewTimeout)
	views.OnSizeChange(func(n int) {
		metrics.ActiveViewSessions.Set(float64(n))
	})
	pending := sessions.NewStore[handlers.PendingAlias](cfg.ConfirmTimeout)
	limiter := server.NewRateLimiter(server.DefaultRate, server.DefaultCapacity)

	if len(cfg.AdminUserIDs) == 0 {
		logging.Warn("ADMIN_USER_IDS is empty, administrative commands are disabled")
	}

	handler := handlers.NewHTTPHandler(handlers.Deps{
		Resolver:  a.pipeline,
		Presenter: a.presenter,
		Validator: validation.NewInputValidator(),
		Aliases:   a.aliases,
		Views:     views,
		Pending:   pending,
		Health:    health.NewHealthChecker(a.aliases, a.client, views.Len),
		IsAdmin:   cfg.IsAdmin,
	})
	srv := server.NewServer(cfg, handler, limiter)

	sched := scheduler.NewScheduler(a.aliases,
		scheduler.Target{Name: "views", Sweeper: views},
		scheduler.Target{Name: "pending_aliases", Sweeper: pending},
		scheduler.Target{Name: "rate_limiter", Sweeper: limiter},
	)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	watcher, err := aliases.NewWatcher(a.aliases)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		// hot reload is a convenience, the bot keeps serving without it
		if err := watcher.Run(gctx); err != nil {
			logging.Error("Alias file hot reload disabled", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server exited with error", "error", err)
		return err
	}
	logging.Info("Server exited gracefully")
	return nil
}
