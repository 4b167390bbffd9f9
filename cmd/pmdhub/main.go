// cmd/pmdhub/main.go
package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tamzrod/pmdhub/internal/config"
	"github.com/tamzrod/pmdhub/internal/hub"
	"github.com/tamzrod/pmdhub/internal/observability"
	"github.com/tamzrod/pmdhub/internal/poller"
	"github.com/tamzrod/pmdhub/internal/registry"
	"github.com/tamzrod/pmdhub/internal/state"
)

var (
	cfgPath     string
	salIndex    int
	simulate    bool
	metricsAddr string
	debug       bool
)

var rootCmd = &cobra.Command{
	Use:   "pmdhub",
	Short: "Gauge hub telemetry controller",
	Long: `pmdhub polls a hub of position measurement devices over TCP and
publishes one telemetry sample per configured gauge per cycle.

With --simulate a mock hub is started on localhost and the controller
is pointed at it, so no hardware is needed.`,
	Version: "1.0.0",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the hub configuration file")
	runCmd.Flags().IntVar(&salIndex, "sal-index", 1, "SAL index selecting the hub entry")
	runCmd.Flags().BoolVar(&simulate, "simulate", false, "Run against a mock hub on localhost")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Listen address for prometheus metrics (empty disables)")
	runCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
}

func run(ctx context.Context) error {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	hubCfg, err := config.SelectHub(cfg, salIndex)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// --------------------
	// Optional mock hub
	// --------------------

	if simulate {
		scripted := hub.NewScriptedHub(
			0.00009, 0.001, 0.002, 0.003,
			math.NaN(), 0.005, math.NaN(), math.NaN(),
		)
		srv, err := hub.NewMockServer(scripted, log)
		if err != nil {
			return fmt.Errorf("mock hub failed to start: %w", err)
		}
		defer srv.Close()
		hubCfg.Host = "127.0.0.1"
		hubCfg.Port = srv.Port()
		log.Info().Int("port", hubCfg.Port).Msg("simulation mode, mock hub started")
	}

	// --------------------
	// Build
	// --------------------

	devices, err := registry.Load(hubCfg)
	if err != nil {
		return err
	}
	for _, d := range devices {
		log.Info().Int("slot", d.Index+1).Str("name", d.Name).Str("kind", d.Kind).Msg("device registered")
	}

	var metrics *observability.Metrics
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = observability.New(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	client := hub.NewClient(
		hubCfg.Host,
		hubCfg.Port,
		time.Duration(hubCfg.ReadTimeoutMs)*time.Millisecond,
		log,
	)
	controller := state.NewController(log)

	p, err := poller.New(poller.Config{
		Interval:            time.Duration(hubCfg.TelemetryInterval * float64(time.Second)),
		MultiplexerRecovery: true,
		RecoveryPause:       2 * time.Second,
	}, devices, client, log)
	if err != nil {
		return err
	}

	// --------------------
	// Enable
	// --------------------

	if err := controller.Enable(); err != nil {
		return err
	}
	metrics.SetState(int(controller.State()))

	if err := client.Connect(ctx); err != nil {
		fault := controller.FaultOnConnect(err)
		metrics.SetState(int(controller.State()))
		return fault
	}

	out := make(chan poller.CycleResult)
	go p.Run(ctx, out)

	// --------------------
	// Cycle loop
	// --------------------

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down, disconnecting from hub")
			return nil

		case res := <-out:
			metrics.ObserveCycle(res.Failed, res.Invalid(), time.Since(res.At))
			publish(log, res)

			st, fault := controller.ObserveCycle(res.Failed, res.Err)
			metrics.SetState(int(st))
			if fault != nil {
				cancel()
				return fault
			}
		}
	}
}

// publish hands the cycle result to the telemetry consumer. The
// external middleware is out of scope here, so samples go to the log.
func publish(log zerolog.Logger, res poller.CycleResult) {
	for _, s := range res.Samples {
		ev := log.Debug().Int("slot", s.DeviceIndex+1).Bool("valid", s.Valid)
		if s.Valid {
			ev = ev.Float64("position", s.Position)
		}
		ev.Msg("telemetry sample")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
