package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theyonatan/multiverse/pkg/api"
	"github.com/theyonatan/multiverse/pkg/config"
	"github.com/theyonatan/multiverse/pkg/facade"
	"github.com/theyonatan/multiverse/pkg/log"
	"github.com/theyonatan/multiverse/pkg/logbus"
	"github.com/theyonatan/multiverse/pkg/metrics"
	"github.com/theyonatan/multiverse/pkg/supervisor"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "multiverse",
	Short: "Multiverse - concurrent universe simulator",
	Long: `Multiverse simulates a population of independent, concurrently
executing universes that age on their own clocks, form relationships at
birth, and exchange combat and healing messages until they collapse.

A supervisor owns the fleet, brokers every inter-universe message and
exposes an HTTP/JSON control plane plus a broadcast log feed.`,
	Version: Version,
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Multiverse version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	// Initialize logging before command execution
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	if err := log.Setup(logLevel, logJSON, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		_ = log.Setup("info", logJSON, nil)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the multiverse server",
	Long: `Start the supervisor, the intent pump, the log bus and the HTTP
control plane, then run until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "Path to YAML configuration file")
	serveCmd.Flags().String("listen", "", "Control plane bind address (overrides config)")
	serveCmd.Flags().String("metrics-addr", "", "Metrics bind address (overrides config)")
	serveCmd.Flags().Duration("tick-period", 0, "Universe tick period (overrides config)")
	serveCmd.Flags().Duration("pump-period", 0, "Intent pump period (overrides config)")
	serveCmd.Flags().Int64("seed", 0, "RNG seed for reproducible runs (0 = entropy)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("listen"); v != "" {
		cfg.ListenAddr = v
	}
	if v, _ := cmd.Flags().GetString("metrics-addr"); v != "" {
		cfg.MetricsAddr = v
	}
	if v, _ := cmd.Flags().GetDuration("tick-period"); v > 0 {
		cfg.TickPeriod = config.Duration(v)
	}
	if v, _ := cmd.Flags().GetDuration("pump-period"); v > 0 {
		cfg.PumpPeriod = config.Duration(v)
	}
	if v, _ := cmd.Flags().GetInt64("seed"); v != 0 {
		cfg.Seed = v
	}

	// Log settings from the config file apply unless the matching global
	// flag was given.
	flags := rootCmd.PersistentFlags()
	logLevel, _ := flags.GetString("log-level")
	if !flags.Changed("log-level") {
		logLevel = cfg.LogLevel
	}
	logJSON, _ := flags.GetBool("log-json")
	if !flags.Changed("log-json") {
		logJSON = cfg.LogJSON
	}
	if err := log.Setup(logLevel, logJSON, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, keeping previous log settings\n", err)
	}

	logger := log.WithComponent("main")

	// Log bus and retention ring
	bus := logbus.NewBus()
	bus.Start()
	defer bus.Stop()

	ring := logbus.NewRing(cfg.RingCapacity)
	ring.Follow(bus)
	defer ring.Stop()

	// Relay the feed into operator logging so a bare terminal still
	// narrates the fleet.
	feedSub := bus.Subscribe()
	go func() {
		feedLogger := log.WithComponent("feed")
		for entry := range feedSub {
			feedLogger.Info().Str("level", string(entry.Level)).Msg(entry.Message)
		}
	}()

	// Supervisor and driver
	sup := supervisor.New(supervisor.Config{
		Bus:        bus,
		TickPeriod: cfg.TickPeriod.Std(),
		Seed:       cfg.Seed,
	})
	fab := facade.New(sup, cfg.PumpPeriod.Std())

	driver := supervisor.NewDriver(sup, cfg.PumpPeriod.Std())
	driver.Start()

	// Metrics
	collector := metrics.NewCollector(sup)
	collector.Start()

	metricsServer := metrics.NewServer(cfg.MetricsAddr)
	go func() {
		if err := metricsServer.Start(); err != nil {
			logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	// Control plane
	apiServer := api.NewServer(sup, ring, bus, cfg.ListenAddr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	bus.Info("Supervisor initialized")
	logger.Info().
		Str("listen", cfg.ListenAddr).
		Str("metrics", cfg.MetricsAddr).
		Msg("Multiverse server started")

	// Wait for interrupt or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("control plane failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Control plane shutdown failed")
	}
	driver.Stop()
	fab.ShutdownAll()
	collector.Stop()
	if err := metricsServer.Stop(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Metrics server shutdown failed")
	}

	logger.Info().Msg("Goodbye")
	return nil
}
