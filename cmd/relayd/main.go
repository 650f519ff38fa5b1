package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/good-yellow-bee/alertrelay/internal/api"
	"github.com/good-yellow-bee/alertrelay/internal/engine"
	"github.com/good-yellow-bee/alertrelay/internal/metrics"
	"github.com/good-yellow-bee/alertrelay/internal/notifier"
	"github.com/good-yellow-bee/alertrelay/internal/poller"
	"github.com/good-yellow-bee/alertrelay/internal/storage"
	"github.com/good-yellow-bee/alertrelay/pkg/config"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "relayd",
	Short: "AlertRelay daemon - alert correlation and notification routing",
	Long: `relayd polls the external alarm store for alert lifecycle deltas,
matches them against policy groups, and dispatches SMS and email
notifications to on-schedule contacts.`,
	RunE: runDaemon,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("relayd %s\n", config.Version)
		fmt.Printf("  commit: %s\n", config.Commit)
		fmt.Printf("  built:  %s\n", config.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	var cfg *Config

	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}
	cfg.Verbose = verbose

	// Secrets come from the environment, never from the config file.
	dbPassword := os.Getenv("ALERTRELAY_DB_PASSWORD")
	if dbPassword == "" {
		return fmt.Errorf("ALERTRELAY_DB_PASSWORD environment variable is required")
	}
	jwtSecret := os.Getenv("ALERTRELAY_JWT_SECRET")
	if cfg.API.Enabled && jwtSecret == "" {
		return fmt.Errorf("ALERTRELAY_JWT_SECRET environment variable is required when the API is enabled")
	}

	// Auto-create data directory
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	store := storage.NewSQLiteStorage(cfg.Database.Path)
	if err := store.Open(); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.Printf("database initialized at %s", cfg.Database.Path)

	alarms, err := storage.NewAlarmStore(storage.AlarmStoreConfig{
		Host:        cfg.AlarmStore.Host,
		Port:        cfg.AlarmStore.Port,
		User:        cfg.AlarmStore.User,
		Password:    dbPassword,
		Database:    cfg.AlarmStore.Database,
		SSLMode:     cfg.AlarmStore.SSLMode,
		NewView:     cfg.AlarmStore.NewView,
		ChangedView: cfg.AlarmStore.ChangedView,
		ClosedView:  cfg.AlarmStore.ClosedView,
	})
	if err != nil {
		return fmt.Errorf("connect alarm store: %w", err)
	}
	defer alarms.Close()

	dispatcher, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}

	resolver := engine.NewResolver(store.Contacts())
	pipeline := engine.NewPipeline(resolver, store.AlertHistory(), store.MessageLog(), dispatcher)

	p := poller.New(poller.Config{
		Interval:             cfg.Poller.Interval,
		MaxConsecutiveErrors: cfg.Poller.MaxConsecutiveErrors,
	}, alarms, store.Maintenance(), store.PolicyGroups(), pipeline)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	log.Printf("starting relayd %s", config.Version)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.Run(ctx)
	})

	if cfg.API.Enabled {
		apiServer := api.NewServer(api.Config{
			Address:   cfg.API.Address,
			JWTSecret: jwtSecret,
			TokenTTL:  cfg.API.TokenTTL,
			Verbose:   cfg.Verbose,
		}, store, dispatcher)
		g.Go(apiServer.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return apiServer.Shutdown(shutdownCtx)
		})
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Address)
		g.Go(metricsServer.Start)
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		return fmt.Errorf("run daemon: %w", err)
	}

	log.Printf("daemon stopped")
	return nil
}

// buildDispatcher assembles the notification transports. Disabled channels
// fall back to a logging sender so routing decisions stay visible in the
// message log during staged rollouts.
func buildDispatcher(cfg *Config) (*notifier.Dispatcher, error) {
	var sms notifier.SMSSender = logSMSSender{}
	if cfg.SMS.Enabled {
		gw, err := notifier.NewSMSGateway(notifier.SMSConfig{
			GatewayURL:   cfg.SMS.GatewayURL,
			SourceSystem: cfg.SMS.SourceSystem,
			Timeout:      cfg.SMS.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create sms gateway: %w", err)
		}
		sms = gw
	}

	var email notifier.EmailSender = logEmailSender{}
	if cfg.Email.Enabled {
		en, err := notifier.NewEmailNotifier(notifier.EmailConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: os.Getenv("ALERTRELAY_SMTP_PASSWORD"),
			From:     cfg.Email.From,
		})
		if err != nil {
			return nil, fmt.Errorf("create email notifier: %w", err)
		}
		email = en
	}

	var limiter *notifier.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = notifier.NewRateLimiter(notifier.RateLimitConfig{
			MaxPerWindow: cfg.RateLimit.MaxPerWindow,
			Window:       cfg.RateLimit.Window,
			Enabled:      true,
		})
	}

	return notifier.NewDispatcher(sms, email, limiter), nil
}

type logSMSSender struct{}

func (logSMSSender) SendSMS(_ context.Context, body string, phones []string) error {
	log.Printf("sms delivery disabled, would send to %d recipients: %s", len(phones), body)
	return nil
}

type logEmailSender struct{}

func (logEmailSender) SendEmail(_ context.Context, to []string, subject, _ string) error {
	log.Printf("email delivery disabled, would send %q to %d recipients", subject, len(to))
	return nil
}
