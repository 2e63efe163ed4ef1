package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/ecovoyage"
	api "github.com/aretw0/ecovoyage/pkg/adapters/http"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionBody struct {
	Trip struct {
		SessionID string `json:"session_id"`
		Screen    string `json:"screen"`
		Breakdown *struct {
			GrandTotal int64 `json:"grand_total"`
		} `json:"breakdown"`
	} `json:"trip"`
	Page struct {
		Screen string `json:"screen"`
	} `json:"page"`
	Actions []string `json:"actions"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Page    *struct {
		Screen string `json:"screen"`
	} `json:"page"`
}

func newServer(t *testing.T, opts ...api.Option) *httptest.Server {
	t.Helper()
	p, err := ecovoyage.New()
	require.NoError(t, err)
	h, err := api.NewHandler(p, opts...)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestLoadSpec(t *testing.T) {
	doc, err := api.LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/plan"))
}

func TestHealthAndInfo(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	info, err := http.Get(srv.URL + "/info")
	require.NoError(t, err)
	defer info.Body.Close()
	body := decode[map[string]string](t, info)
	assert.Equal(t, "ecovoyage-http", body["app"])
	assert.Equal(t, "1.0.0", body["api_version"])
}

func TestCatalog(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/catalog/cities/" + url.PathEscape("Hong Kong"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	city := decode[map[string]any](t, resp)
	assert.Equal(t, "Hong Kong", city["name"])

	missing, err := http.Get(srv.URL + "/catalog/cities/Atlantis")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCalculate(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv.URL+"/calculate", `{"city":"Paris","attractions":[0,1],"cuisine":1,"rooms":1,"travelers":2,"days":2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "Rs65730 (≈ $788.76)", body["total"])
	assert.EqualValues(t, 65730, body["breakdown"].(map[string]any)["grand_total"])
}

func TestCalculate_HugeCountsAreCapped(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv.URL+"/calculate", `{"city":"Tokyo","attractions":[0,1,2],"cuisine":2,"hotel":1,"travel_class":1,"rooms":"99999999999","travelers":"99999999999","days":"99999999999"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b := decode[map[string]any](t, resp)["breakdown"].(map[string]any)
	assert.EqualValues(t, domain.MaxCount, b["days"])
	assert.EqualValues(t, domain.MaxCount, b["travelers"])
	for _, k := range []string{"dest_cost", "food_cost", "hotel_cost", "travel_cost", "subtotal", "tax", "grand_total"} {
		assert.Positive(t, b[k].(float64), k)
	}
}

func TestCalculate_Form(t *testing.T) {
	srv := newServer(t)

	form := url.Values{
		"city_index":  {"0"},
		"attractions": {"0", "1"},
		"cuisine":     {"1"},
		"rooms":       {""},
		"travelers":   {"2 people"},
		"days":        {"2"},
	}
	resp, err := http.PostForm(srv.URL+"/calculate", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.EqualValues(t, 65730, body["breakdown"].(map[string]any)["grand_total"])
}

func TestCalculate_Errors(t *testing.T) {
	srv := newServer(t)

	resp := postJSON(t, srv.URL+"/calculate", `{"attractions":[0]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "missing_city_selection", body.Error)
	assert.Equal(t, "Please select a city.", body.Message)

	bad := postJSON(t, srv.URL+"/calculate", `{"city":`)
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestSessionFullCycle(t *testing.T) {
	srv := newServer(t)

	start := postJSON(t, srv.URL+"/sessions", "")
	require.Equal(t, http.StatusCreated, start.StatusCode)
	s := decode[sessionBody](t, start)
	id := s.Trip.SessionID
	require.NotEmpty(t, id)
	assert.Equal(t, "planner", s.Page.Screen)
	assert.Equal(t, []string{"submit_plan"}, s.Actions)

	// Contact before plan redirects to the planner.
	early := postJSON(t, srv.URL+"/sessions/"+id+"/contact", `{"name":"A","phone":"1","email":"a@b"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, early.StatusCode)
	assert.Equal(t, "no_trip_calculated", decode[errorBody](t, early).Error)

	plan := postJSON(t, srv.URL+"/sessions/"+id+"/plan", `{"city":"Paris","attractions":[0,1],"cuisine":1,"rooms":1,"travelers":2,"days":2}`)
	require.Equal(t, http.StatusOK, plan.StatusCode)
	s = decode[sessionBody](t, plan)
	assert.Equal(t, "login", s.Trip.Screen)
	require.NotNil(t, s.Trip.Breakdown)
	assert.Equal(t, int64(65730), s.Trip.Breakdown.GrandTotal)

	blank := postJSON(t, srv.URL+"/sessions/"+id+"/contact", `{"name":"Asha","phone":"  ","email":"a@b"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, blank.StatusCode)
	e := decode[errorBody](t, blank)
	assert.Equal(t, "empty_contact_field", e.Error)
	require.NotNil(t, e.Page)
	assert.Equal(t, "login", e.Page.Screen)

	done := postJSON(t, srv.URL+"/sessions/"+id+"/contact", `{"username":"Asha","phone":"98450","email":"asha@example.com"}`)
	require.Equal(t, http.StatusOK, done.StatusCode)
	s = decode[sessionBody](t, done)
	assert.Equal(t, "confirmation", s.Page.Screen)

	restart := postJSON(t, srv.URL+"/sessions/"+id+"/restart", "")
	require.Equal(t, http.StatusOK, restart.StatusCode)
	s = decode[sessionBody](t, restart)
	assert.Equal(t, "planner", s.Trip.Screen)
	assert.Nil(t, s.Trip.Breakdown)

	again := postJSON(t, srv.URL+"/sessions/"+id+"/contact", `{"name":"Asha","phone":"98450","email":"asha@example.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, again.StatusCode)
	e = decode[errorBody](t, again)
	assert.Equal(t, "no_trip_calculated", e.Error)
	require.NotNil(t, e.Page)
	assert.Equal(t, "planner", e.Page.Screen)

	get, err := http.Get(srv.URL + "/sessions/" + id)
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)
}

func TestSession_NotFound(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/sessions/ghost")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session_not_found", decode[errorBody](t, resp).Error)
}

func TestSession_Delete(t *testing.T) {
	srv := newServer(t)
	s := decode[sessionBody](t, postJSON(t, srv.URL+"/sessions", ""))

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+s.Trip.SessionID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSubscribeEvents(t *testing.T) {
	p, err := ecovoyage.New()
	require.NoError(t, err)
	h, err := api.NewHandler(p)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	trip, err := p.Start(context.Background(), "sse-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+trip.SessionID+"/events?watch=breakdown", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	plan := postJSON(t, srv.URL+"/sessions/sse-1/plan", `{"city":"Seoul","attractions":[0]}`)
	require.Equal(t, http.StatusOK, plan.StatusCode)

	var data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
		}
	}
	var diff map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, "sse-1", diff["session_id"])
	assert.Equal(t, "login", diff["screen"])
	assert.NotNil(t, diff["breakdown"])
}

func TestSubscribeEvents_UnknownSession(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/sessions/ghost/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsAndStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>EcoVoyage</h1>"), 0o644))

	m := observability.NewMetrics(nil)
	p, err := ecovoyage.New(ecovoyage.WithLifecycleHooks(m.Hooks()))
	require.NoError(t, err)

	h, err := api.NewHandler(p, api.WithMetrics(m.Handler()), api.WithStaticDir(dir))
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	postJSON(t, srv.URL+"/calculate", `{"city":"Tokyo"}`)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	scanner := bufio.NewScanner(resp.Body)
	found := false
	for scanner.Scan() {
		if scanner.Text() == `ecovoyage_quotes_total{city="Tokyo"} 1` {
			found = true
		}
	}
	assert.True(t, found, "quote counter exported")

	index, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer index.Body.Close()
	assert.Equal(t, http.StatusOK, index.StatusCode)
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := api.NewStreamManager()
	ch, cancel := sm.Subscribe("s")
	assert.Equal(t, 1, sm.Subscribers("s"))

	for i := 0; i < 20; i++ {
		sm.Broadcast("s", "msg")
	}
	assert.Len(t, ch, cap(ch))

	cancel()
	assert.Zero(t, sm.Subscribers("s"))
}
