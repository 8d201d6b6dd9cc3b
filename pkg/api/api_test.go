package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/theyonatan/multiverse/pkg/log"
	"github.com/theyonatan/multiverse/pkg/logbus"
	"github.com/theyonatan/multiverse/pkg/supervisor"
	"github.com/theyonatan/multiverse/pkg/universe"
)

func init() {
	log.Quiet()
}

type fixture struct {
	server *httptest.Server
	sup    *supervisor.Supervisor
	ring   *logbus.Ring
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bus := logbus.NewBus()
	bus.Start()
	t.Cleanup(bus.Stop)

	ring := logbus.NewRing(1000)
	ring.Follow(bus)
	t.Cleanup(ring.Stop)

	sup := supervisor.New(supervisor.Config{
		Bus:        bus,
		TickPeriod: 5 * time.Millisecond,
		Behavior:   universe.Behavior{ActionEveryTicks: 1},
		Seed:       1,
	})
	t.Cleanup(sup.ShutdownAll)

	srv := NewServer(sup, ring, bus, DefaultListenAddr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &fixture{server: ts, sup: sup, ring: ring}
}

func (f *fixture) post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	resp, err := http.Post(f.server.URL+path, "application/json", reader)
	assert.NoError(t, err)
	return resp
}

func (f *fixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	assert.NoError(t, err)
	return resp
}

func (f *fixture) ringContains(substr string) bool {
	for _, e := range f.ring.Tail(logbus.DefaultRingCapacity) {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func (f *fixture) waitForLog(t *testing.T, substr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.ringContains(substr) {
			return
		}
		f.sup.ProcessIntents()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("log entry containing %q never appeared", substr)
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/health")
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "OK", string(body))
}

func TestCreateUniverse(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/universes", `{"name":"Alpha"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	assert.True(t, f.sup.Exists("Alpha"))
}

func TestCreateRejectsEmptyName(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/universes", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/universes", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/universes", `{"name":"Alpha"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = f.post(t, "/universes", `{"name":"Alpha"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Contains(t, body["error"], "already exists")
}

func TestListUniverses(t *testing.T) {
	f := newFixture(t)

	_ = f.post(t, "/universes", `{"name":"Alpha"}`).Body.Close()
	_ = f.post(t, "/universes", `{"name":"Beta"}`).Body.Close()

	resp := f.get(t, "/universes")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string][]string](t, resp)
	assert.Equal(t, []string{"Alpha", "Beta"}, body["universes"])
}

func TestPauseUnknownNameIsSilent(t *testing.T) {
	// Scenario: a command to a name that never existed answers 200 and
	// leaves only an info log behind.
	f := newFixture(t)

	resp := f.post(t, "/universes/ghost/pause", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	f.waitForLog(t, "No universe named 'ghost'")
	assert.Empty(t, f.sup.List())

	// The info log is the only trace: no user-action narration for a
	// name that never resolved.
	assert.False(t, f.ringContains("> user paused ghost"))
	for _, e := range f.ring.Tail(logbus.DefaultRingCapacity) {
		assert.NotEqual(t, logbus.LevelUserAction, e.Level)
	}
}

func TestShatterAndLogs(t *testing.T) {
	f := newFixture(t)

	_ = f.post(t, "/universes", `{"name":"Alpha"}`).Body.Close()

	resp := f.post(t, "/universes/Alpha/events/shatter", `{"strength":40}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	f.waitForLog(t, "SHATTERED! -40 HP → 60 left")

	resp = f.get(t, "/logs?limit=50")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	entries := decodeBody[[]map[string]string](t, resp)
	assert.NotEmpty(t, entries)

	var found bool
	for _, e := range entries {
		assert.Contains(t, []string{"info", "universe", "relationship", "useraction"}, e["level"])
		if strings.Contains(e["message"], "SHATTERED! -40 HP") {
			found = true
		}
	}
	assert.True(t, found, "shatter narration missing from /logs")
}

func TestShatterRejectsMalformedStrength(t *testing.T) {
	f := newFixture(t)

	_ = f.post(t, "/universes", `{"name":"Alpha"}`).Body.Close()

	resp := f.post(t, "/universes/Alpha/events/shatter", `{"strength":"many"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCrashCollapsesUniverse(t *testing.T) {
	f := newFixture(t)

	_ = f.post(t, "/universes", `{"name":"Alpha"}`).Body.Close()

	resp := f.post(t, "/universes/Alpha/events/crash", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	f.waitForLog(t, "has COLLAPSED")

	deadline := time.Now().Add(time.Second)
	for f.sup.Exists("Alpha") && time.Now().Before(deadline) {
		f.sup.ProcessIntents()
		time.Sleep(10 * time.Millisecond)
	}
	assert.False(t, f.sup.Exists("Alpha"))
}

func TestCollapseEndpointRemovesFromList(t *testing.T) {
	f := newFixture(t)

	_ = f.post(t, "/universes", `{"name":"Alpha"}`).Body.Close()

	resp := f.post(t, "/universes/Alpha/collapse", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	assert.False(t, f.sup.Exists("Alpha"))
	f.waitForLog(t, "> user collapsed Alpha")
}

func TestLogsRejectsBadLimit(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/logs?limit=banana")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestLogsDefaultLimit(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < DefaultLogLimit+20; i++ {
		_ = f.post(t, "/universes/ghost/pause", "").Body.Close()
	}

	f.waitForLog(t, "No universe named 'ghost'")
	deadline := time.Now().Add(2 * time.Second)
	for f.ring.Len() < DefaultLogLimit && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	resp := f.get(t, "/logs")
	entries := decodeBody[[]map[string]string](t, resp)
	assert.Len(t, entries, DefaultLogLimit)
}

func TestStateEndpointPublishesSnapshot(t *testing.T) {
	f := newFixture(t)

	_ = f.post(t, "/universes", `{"name":"Alpha"}`).Body.Close()

	resp := f.get(t, "/universes/Alpha/state")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	f.waitForLog(t, "STATE → HP: 100")
}
