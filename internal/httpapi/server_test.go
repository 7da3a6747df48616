package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/soracore/internal/audio"
	"github.com/dshills/soracore/internal/config"
	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/hub"
	"github.com/dshills/soracore/internal/level"
	"github.com/dshills/soracore/internal/prefs"
)

type fixture struct {
	hub      *hub.Hub
	headless *hub.Headless
	server   *Server
	handler  http.Handler
	mem      *diag.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := diag.NewMemory()
	h, err := hub.New(config.Default(), hub.WithSink(mem), hub.WithPrefs(prefs.NewMemory()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	hl, err := h.ActivateHeadless(context.Background())
	require.NoError(t, err)
	s := New(h)
	return &fixture{hub: h, headless: hl, server: s, handler: s.Handler(), mem: mem}
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", "").Code)
	f.hub.Host.Shutdown()
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/readyz", "").Code)
}

func TestListFacades(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/facades", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var body struct {
		Facades []FacadeInfo `json:"facades"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Facades, 3)
	assert.Equal(t, "audio", body.Facades[0].Name)
	assert.Equal(t, []string{"sound-manager"}, body.Facades[0].Providers)
	assert.Len(t, body.Facades[0].Ops, 4)
}

func TestListChannels(t *testing.T) {
	f := newFixture(t)

	var body struct {
		Channels []ChannelInfo `json:"channels"`
	}
	w := f.do(http.MethodGet, "/channels", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	byName := map[string]ChannelInfo{}
	for _, c := range body.Channels {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "host.quit")
	assert.Equal(t, "struct {}", byName["host.quit"].Payload)
	assert.Equal(t, 1, byName["host.quit"].Listeners, "the audio backend registry")
}

func TestEmit(t *testing.T) {
	f := newFixture(t)
	var got []level.LoadContext
	f.hub.Levels.LoadStarted.Subscribe(func(lc level.LoadContext) { got = append(got, lc) })

	w := f.do(http.MethodPost, "/channels/level.load_started/emit", `{"Level":"crypt"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, got, 1)
	assert.Equal(t, "crypt", got[0].Level)

	quits := 0
	f.hub.Host.OnQuit(func() { quits++ })
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/channels/host.quit/emit", "").Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/channels/host.quit/emit", "{}").Code)
	assert.Equal(t, 1, quits, "the quit signal fires once")
	assert.True(t, f.hub.Host.ShuttingDown())
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/readyz", "").Code)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/channels/nope/emit", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/channels/level.load_started/emit", `[1]`).Code)
}

func TestSetVolume(t *testing.T) {
	f := newFixture(t)
	var changes []audio.VolumeChange
	f.hub.Audio.VolumeChanged.Subscribe(func(c audio.VolumeChange) { changes = append(changes, c) })

	w := f.do(http.MethodPost, "/audio/volume", `{"group":"music","value":0.5}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, changes, 1)
	assert.Equal(t, "music", changes[0].Group.Name)
	assert.Equal(t, 0.5, changes[0].Value)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/audio/volume", `{"group":"voice","value":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/audio/volume", `{"group":"music","value":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/audio/volume", `nope`).Code)
}

func TestShowScreen(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/ui/screens/load", `{"visible":true}`).Code)
	assert.True(t, f.headless.Loading.Visible())
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/ui/screens/credits", `{"visible":true}`).Code)
}

func TestLoadLevel(t *testing.T) {
	f := newFixture(t)
	var finished []level.LoadContext
	f.hub.Levels.LoadFinished.Subscribe(func(lc level.LoadContext) { finished = append(finished, lc) })

	assert.Equal(t, http.StatusNoContent, f.do(http.MethodPost, "/levels/forest/load?loading=false", "").Code)
	require.Len(t, finished, 1)
	assert.Equal(t, "forest", finished[0].Level)
	assert.False(t, finished[0].ShowLoadingScreen)
	assert.NoError(t, finished[0].Err)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/levels/forest/load?loading=maybe", "").Code)
}

func TestPrefsAndLogLevel(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.hub.Prefs.SetFloat("SoundManager_MasterVolume", 0.3))

	var body struct {
		Prefs map[string]float64 `json:"prefs"`
	}
	w := f.do(http.MethodGet, "/prefs", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]float64{"SoundManager_MasterVolume": 0.3}, body.Prefs)

	w = f.do(http.MethodPut, "/log/level", `{"level":"debug"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, diag.LevelDebug, f.hub.LogLevel())
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/log/level", `{"level":"loud"}`).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodGet, "/healthz", "")

	w := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `soracore_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}

func TestMetricsLabelsAreBounded(t *testing.T) {
	f := newFixture(t)
	for _, p := range []string{"/a", "/b/c", "/healthz/x", "/zz?q=1"} {
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, p, "").Code)
	}

	body := f.do(http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `soracore_http_requests_total{method="GET",path="unmatched",status="404"} 4`)
	assert.NotContains(t, body, `path="/a"`)
	assert.NotContains(t, body, `path="/b/c"`)

	var series int
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "soracore_http_inflight_requests") {
			series++
			assert.Equal(t, "soracore_http_inflight_requests", strings.Fields(line)[0])
		}
	}
	assert.Equal(t, 1, series)
}

func TestRequestsAreLogged(t *testing.T) {
	f := newFixture(t)
	f.hub.SetLogLevel(diag.LevelDebug)
	f.do(http.MethodGet, "/healthz", "")

	var found bool
	for _, r := range f.mem.Records() {
		if r.Source == "httpapi" && r.Message == "request" {
			found = true
			assert.Equal(t, "/healthz", r.Fields["path"])
			assert.NotEmpty(t, r.Fields["request_id"])
		}
	}
	assert.True(t, found)
}

func TestListenAndServe(t *testing.T) {
	f := newFixture(t)
	s := f.server
	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a }) }()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
