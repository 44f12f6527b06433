package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/props/internal/config"
	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/internal/scenario"
	"github.com/vango-dev/props/pkg/instrument"
	"github.com/vango-dev/props/pkg/property"
)

const formScenario = "../../internal/scenario/testdata/form.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout, io.Discard)
	cmd.SetArgs(append([]string{"--dir", t.TempDir(), "--no-color", "--log-level", "error"}, args...))
	err := cmd.Execute()
	t.Cleanup(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		property.SetLogger(nil)
	})
	return stdout.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", formScenario)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "signup form: 12 steps, 15 expectations") {
		t.Errorf("expected summary line, got:\n%s", out)
	}
	if !strings.Contains(out, "tags (list)") {
		t.Errorf("expected list events in output, got:\n%s", out)
	}
}

func TestRunCommandJSON(t *testing.T) {
	out, err := execute(t, "run", "--json", formScenario)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var body struct {
		Name  string         `json:"name"`
		Steps int            `json:"steps"`
		State map[string]any `json:"state"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if body.Steps != 12 {
		t.Errorf("expected 12 steps, got %d", body.Steps)
	}
	if body.State["tagCount"] != float64(3) {
		t.Errorf("expected tagCount 3, got %v", body.State["tagCount"])
	}
}

func TestRunCommandFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "name: bad\nproperties:\n  - {name: n, type: int}\nsteps:\n  - expect: {n: 1}\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", path)
	if code := errors.CodeOf(err); code != "S005" {
		t.Fatalf("expected S005, got %q (%v)", code, err)
	}
	if !strings.Contains(out, "n = 0, expected 1") {
		t.Errorf("expected failure detail in output, got:\n%s", out)
	}
}

func TestRunCommandMissingArgument(t *testing.T) {
	_, err := execute(t, "run")
	if code := errors.CodeOf(err); code != "X001" {
		t.Errorf("expected X001, got %q (%v)", code, err)
	}
}

func TestInvalidFlagOverride(t *testing.T) {
	_, err := execute(t, "--max-depth=-1", "version")
	if code := errors.CodeOf(err); code != "C003" {
		t.Errorf("expected C003, got %q (%v)", code, err)
	}
}

func TestCodesCommand(t *testing.T) {
	out, err := execute(t, "codes", "--category", "scenario")
	if err != nil {
		t.Fatalf("codes failed: %v", err)
	}
	if !strings.Contains(out, "S003") || strings.Contains(out, "P010") {
		t.Errorf("expected only scenario codes, got:\n%s", out)
	}

	out, err = execute(t, "codes", "p010")
	if err != nil {
		t.Fatalf("codes p010 failed: %v", err)
	}
	if !strings.Contains(out, "Index out of range") {
		t.Errorf("expected P010 message, got:\n%s", out)
	}

	if _, err := execute(t, "codes", "Z999"); errors.CodeOf(err) != "X001" {
		t.Errorf("expected X001 for an unknown code, got %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()

	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout, io.Discard)
	cmd.SetArgs([]string{"--dir", dir, "--max-depth", "8", "config", "init"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Binding.MaxDepth != 8 {
		t.Errorf("expected maxDepth 8, got %d", cfg.Binding.MaxDepth)
	}

	cmd = newRootCmd(&stdout, io.Discard)
	cmd.SetArgs([]string{"--dir", dir, "config", "init"})
	if err := cmd.Execute(); errors.CodeOf(err) != "C003" {
		t.Errorf("expected C003 when the file exists, got %v", err)
	}

	stdout.Reset()
	cmd = newRootCmd(&stdout, io.Discard)
	cmd.SetArgs([]string{"--dir", dir, "config", "show"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(stdout.String(), `"maxDepth": 8`) {
		t.Errorf("expected loaded config, got:\n%s", stdout.String())
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("expected %q, got %q", version, out)
	}
}

func TestServerRoutes(t *testing.T) {
	s, err := scenario.Load(formScenario)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	instrument.Install(instrument.NewMetrics(instrument.WithRegistry(reg)))
	defer instrument.Install()

	srv := newScenarioServer(s, reg, scenario.NewRunner(scenario.WithLogger(quiet)), newEventHub(quiet), quiet)
	defer srv.close()
	if err := srv.rerun(); err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	h := srv.routes()

	get := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	if rec := get("GET", "/healthz"); rec.Body.String() != "OK" {
		t.Errorf("expected OK, got %q", rec.Body.String())
	}

	rec := get("GET", "/state")
	var state map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("invalid state JSON: %v", err)
	}
	if state["canSubmit"] != false {
		t.Errorf("expected canSubmit false, got %v", state["canSubmit"])
	}

	if rec := get("GET", "/state/total"); !strings.Contains(rec.Body.String(), `"value":36`) {
		t.Errorf("expected total 36, got %s", rec.Body.String())
	}
	if rec := get("GET", "/state/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	if rec := get("POST", "/run"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"passed":true`) {
		t.Errorf("expected a passing rerun, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := get("GET", "/report"); !strings.Contains(rec.Body.String(), `"name":"signup form"`) {
		t.Errorf("expected report body, got %s", rec.Body.String())
	}

	metrics := get("GET", "/metrics").Body.String()
	for _, name := range []string{"props_propagations_total", "props_notifications_total", "props_active_bindings"} {
		if !strings.Contains(metrics, name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}

func TestEventStream(t *testing.T) {
	s, err := scenario.Load(formScenario)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := newEventHub(quiet)
	runner := scenario.NewRunner(scenario.WithLogger(quiet), scenario.WithEventHook(hub.publishEvent))
	srv := newScenarioServer(s, prometheus.NewRegistry(), runner, hub, quiet)
	defer srv.close()

	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/events", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.clientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Post(ts.URL+"/run", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /run failed: %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msgs []streamMessage
	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read failed after %d messages: %v", len(msgs), err)
		}
		msgs = append(msgs, msg)
		if msg.Type == streamPassed || msg.Type == streamFailed {
			break
		}
	}

	if msgs[0].Type != streamRun || msgs[0].Name != "signup form" {
		t.Errorf("expected run message first, got %+v", msgs[0])
	}
	if last := msgs[len(msgs)-1]; last.Type != streamPassed {
		t.Errorf("expected passed message last, got %+v", last)
	}

	events := msgs[1 : len(msgs)-1]
	if len(events) != len(srv.report.Events) {
		t.Fatalf("expected %d events, got %d", len(srv.report.Events), len(events))
	}
	for i, m := range events {
		if m.Type != streamEvent || m.Event == nil || *m.Event != srv.report.Events[i] {
			t.Errorf("message %d: expected %v, got %+v", i, srv.report.Events[i], m)
		}
	}
}

func TestNewMetrics(t *testing.T) {
	c := config.New()
	c.Metrics.Subsystem = "form"

	m, g := newMetrics(c, false)
	m.Notified(property.KindScalar, 2)

	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather error: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{"props_form_notifications_total", "go_goroutines"} {
		if !found[name] {
			t.Errorf("expected %s to be gathered", name)
		}
	}

	global, dg := newMetrics(c, true)
	if again, _ := newMetrics(config.New(), true); again != global {
		t.Error("expected the process-wide metrics to be reused")
	}
	if dg != prometheus.DefaultGatherer {
		t.Error("expected the default gatherer")
	}
}
