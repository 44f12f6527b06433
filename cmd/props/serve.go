package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/props/internal/config"
	"github.com/vango-dev/props/internal/scenario"
	"github.com/vango-dev/props/pkg/instrument"
)

func serveCmd(cfg func() *config.Config) *cobra.Command {
	var (
		addr    string
		tracing bool
		global  bool
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Execute a scenario and serve its metrics and state",
		Long: `Execute a scenario, then serve an HTTP endpoint for inspection.

Routes:
  GET  /metrics       Prometheus metrics of the run
  GET  /state         current value of every property
  GET  /state/{name}  current value of one property
  GET  /report        events and failures of the last run
  POST /run           execute the scenario again
  GET  /events        WebSocket stream of the events of every run
  GET  /healthz       liveness probe

Examples:
  props serve form.yaml
  props serve --addr=:9100 --trace form.yaml
  props serve --global-registry form.yaml`,
		Args: requireArgs(1, "scenario file"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if addr != "" {
				c.Metrics.Addr = addr
			}
			if tracing {
				c.Tracing.Enabled = true
			}

			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}

			metrics, gatherer := newMetrics(c, global)
			monitors := []instrument.Monitor{metrics}
			if c.Tracing.Enabled {
				monitors = append(monitors, instrument.NewTracer(instrument.WithTracerName(c.Tracing.TracerName)))
			}
			instrument.Install(monitors...)
			defer instrument.Install()

			logger := slog.Default().With("component", "serve")
			hub := newEventHub(logger)
			srv := newScenarioServer(s, gatherer, scenario.NewRunner(
				scenario.WithLogger(slog.Default().With("component", "scenario")),
				scenario.WithMaxDepth(c.Binding.MaxDepth),
				scenario.WithEventHook(hub.publishEvent),
			), hub, logger)
			defer srv.close()

			if err := srv.rerun(); err != nil {
				errorMsg(cmd.ErrOrStderr(), "%s", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Serving %s on http://%s", s.Name, c.Metrics.Addr)
			return listenAndServe(ctx, &http.Server{
				Addr:              c.Metrics.Addr,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}, logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from "+config.ConfigFileName+")")
	cmd.Flags().BoolVar(&tracing, "trace", false, "Create OpenTelemetry spans for binding propagation")
	cmd.Flags().BoolVar(&global, "global-registry", false, "Register metrics on the process-wide Prometheus registry")

	return cmd
}

// newMetrics builds the Prometheus monitor and the gatherer /metrics serves.
// With global set, the process-wide collectors are used; otherwise a private
// registry with Go and process collectors.
func newMetrics(c *config.Config, global bool) (*instrument.Metrics, prometheus.Gatherer) {
	opts := []instrument.MetricsOption{
		instrument.WithNamespace(c.Metrics.Namespace),
		instrument.WithSubsystem(c.Metrics.Subsystem),
	}
	if global {
		return instrument.Prometheus(opts...), prometheus.DefaultGatherer
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return instrument.NewMetrics(append(opts, instrument.WithRegistry(reg))...), reg
}

// listenAndServe runs srv until ctx is done, then shuts it down.
func listenAndServe(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// scenarioServer serializes HTTP access to a scenario runner; properties
// are not safe for concurrent use.
type scenarioServer struct {
	mu       sync.Mutex
	scenario *scenario.Scenario
	runner   *scenario.Runner
	report   *scenario.Report
	runErr   error

	gatherer prometheus.Gatherer
	hub      *eventHub
	logger   *slog.Logger
}

// newScenarioServer creates the server. r should publish its events to hub
// through scenario.WithEventHook.
func newScenarioServer(s *scenario.Scenario, g prometheus.Gatherer, r *scenario.Runner, hub *eventHub, logger *slog.Logger) *scenarioServer {
	return &scenarioServer{scenario: s, runner: r, gatherer: g, hub: hub, logger: logger}
}

func (s *scenarioServer) rerun() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hub.publish(streamMessage{Type: streamRun, Name: s.scenario.Name})
	s.report, s.runErr = s.runner.Run(s.scenario)
	if s.runErr != nil {
		s.hub.publish(streamMessage{Type: streamFailed, Name: s.scenario.Name, Error: s.runErr.Error()})
	} else {
		s.hub.publish(streamMessage{Type: streamPassed, Name: s.scenario.Name})
	}
	return s.runErr
}

func (s *scenarioServer) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runner.Close()
	s.hub.close()
}

func (s *scenarioServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/state", s.handleState)
	r.Get("/state/{name}", s.handleProperty)
	r.Get("/report", s.handleReport)
	r.Post("/run", s.handleRun)
	r.Get("/events", s.hub.handle)

	return r
}

func (s *scenarioServer) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.runner.State()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, state)
}

func (s *scenarioServer) handleProperty(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	value, ok := s.runner.State()[name]
	s.mu.Unlock()
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown property " + name})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"name": name, "value": value})
}

type reportBody struct {
	*scenario.Report
	Passed   bool     `json:"passed"`
	Error    string   `json:"error,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

func (s *scenarioServer) body() reportBody {
	body := reportBody{Report: s.report}
	if s.report != nil {
		body.Passed = s.runErr == nil
		body.Failures = failureStrings(s.report)
	}
	if s.runErr != nil {
		body.Error = s.runErr.Error()
	}
	return body
}

func (s *scenarioServer) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body := s.body()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, body)
}

func (s *scenarioServer) handleRun(w http.ResponseWriter, r *http.Request) {
	err := s.rerun()
	s.mu.Lock()
	body := s.body()
	s.mu.Unlock()

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, body)
}

func (s *scenarioServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", slog.String("error", err.Error()))
	}
}
