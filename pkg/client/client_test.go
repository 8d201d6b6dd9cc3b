package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUniverse(t *testing.T) {
	var gotPath, gotName string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotName = body["name"]
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	assert.NoError(t, c.CreateUniverse("Alpha"))
	assert.Equal(t, "POST /universes", gotPath)
	assert.Equal(t, "Alpha", gotName)
}

func TestListUniverses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universes", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string][]string{"universes": {"Alpha", "Beta"}})
	}))
	defer ts.Close()

	names, err := NewClient(ts.URL).ListUniverses()
	assert.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, names)
}

func TestServerErrorSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "universe name 'Alpha' already exists"})
	}))
	defer ts.Close()

	err := NewClient(ts.URL).CreateUniverse("Alpha")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestShatterSendsStrength(t *testing.T) {
	var gotPath string
	var gotStrength int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]int
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotStrength = body["strength"]
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	assert.NoError(t, NewClient(ts.URL).Shatter("Alpha", 40))
	assert.Equal(t, "/universes/Alpha/events/shatter", gotPath)
	assert.Equal(t, 40, gotStrength)
}

func TestLogs(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode([]LogEntry{
			{Level: "universe", Message: "☠ Alpha[#FF0000] has COLLAPSED"},
		})
	}))
	defer ts.Close()

	entries, err := NewClient(ts.URL).Logs(50)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "universe", entries[0].Level)
}

func TestAddressNormalization(t *testing.T) {
	c := NewClient("127.0.0.1:3000")
	assert.Equal(t, "http://127.0.0.1:3000", c.baseURL)

	c = NewClient("http://example.test/")
	assert.Equal(t, "http://example.test", c.baseURL)
}
