package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/bbctl/internal/baseband"
	"github.com/danmuck/bbctl/internal/sim"
	"github.com/danmuck/bbctl/internal/testutil/testlog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type staticSource struct {
	status sim.Status
}

func (s staticSource) Status() sim.Status { return s.status }

func newTestServer(st sim.Status) *Server {
	return NewServer("bbsim-test", "127.0.0.1:0", nil, staticSource{status: st})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	testlog.Start(t)
	rec := get(t, newTestServer(sim.Status{}), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"service":"bbsim-test"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestReadyFollowsInitialization(t *testing.T) {
	testlog.Start(t)
	if rec := get(t, newTestServer(sim.Status{}), "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before init, got %d", rec.Code)
	}
	st := sim.Status{Scheduler: baseband.Status{Initialized: true}}
	if rec := get(t, newTestServer(st), "/ready"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after init, got %d", rec.Code)
	}
}

func TestStatusServesSnapshot(t *testing.T) {
	testlog.Start(t)
	st := sim.Status{
		Now:     42,
		Pending: 3,
		Stats:   sim.Stats{Executed: 5, Completed: 5},
		Scheduler: baseband.Status{
			Initialized:    true,
			RadioStarted:   true,
			ActiveProtocol: "ble",
			StartCounts:    map[string]uint32{"ble": 1},
		},
	}
	rec := get(t, newTestServer(st), "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var got sim.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Now != 42 || got.Pending != 3 || got.Stats.Executed != 5 {
		t.Fatalf("unexpected runner fields: %+v", got)
	}
	if got.Scheduler.ActiveProtocol != "ble" || got.Scheduler.StartCounts["ble"] != 1 {
		t.Fatalf("unexpected scheduler fields: %+v", got.Scheduler)
	}
}

func TestMetricsExposed(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(sim.Status{})
	get(t, s, "/health")
	rec := get(t, s, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bbctl_http_requests_total") {
		t.Fatalf("expected http metrics in exposition")
	}
}

func TestRequestLogCarriesSchedulerState(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	s := newTestServer(sim.Status{Now: 7, Pending: 2})
	if rec := get(t, s, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before init, got %d", rec.Code)
	}
	line := buf.String()
	for _, want := range []string{
		`"node":"bbsim-test"`,
		`"path":"/ready"`,
		`"status":503`,
		`"initialized":false`,
		`"pending":2`,
		`"now":7`,
		`"message":"admin request"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("request log missing %s: %s", want, line)
		}
	}
}

func TestUnmatchedRoutesShareMetricLabel(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(sim.Status{})
	if rec := get(t, s, "/no/such/route"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec := get(t, s, "/metrics")
	if !strings.Contains(rec.Body.String(), `path="unmatched"`) {
		t.Fatalf("expected unmatched path label in exposition")
	}
}
