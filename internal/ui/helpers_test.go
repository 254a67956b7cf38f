package ui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"library-web/internal/apiclient"
	"library-web/internal/session"
)

type response struct {
	status int
	body   string
}

// fakeBackend answers canned responses and records every call as
// "METHOD /path" with the /api prefix removed. A response registered for
// "/path?query" wins over one for "/path".
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]response
	bodies    map[string]string
}

func (f *fakeBackend) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = response{status: status, body: body}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.bodies[key] = string(body)
	resp, ok := f.responses[key+"?"+r.URL.RawQuery]
	if !ok {
		resp, ok = f.responses[key]
	}
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not found"}`)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) count(key string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == key {
			n++
		}
	}
	return n
}

func (f *fakeBackend) body(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

type toastRecorder struct {
	toasts []Toast
}

func (r *toastRecorder) Notify(t Toast) { r.toasts = append(r.toasts, t) }

func (r *toastRecorder) last() Toast {
	if len(r.toasts) == 0 {
		return Toast{}
	}
	return r.toasts[len(r.toasts)-1]
}

type fixture struct {
	backend *fakeBackend
	store   *session.Store
	state   *State
	toasts  *toastRecorder
	dash    *Dashboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := &fakeBackend{responses: map[string]response{}, bodies: map[string]string{}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := session.New(session.NewMemoryStorage())
	client, err := apiclient.New(srv.URL+"/api", apiclient.WithCredentials(store))
	require.NoError(t, err)

	state := NewState()
	toasts := &toastRecorder{}
	return &fixture{
		backend: backend,
		store:   store,
		state:   state,
		toasts:  toasts,
		dash:    NewDashboard(client, store, state, toasts),
	}
}

func (f *fixture) login() {
	f.store.SetToken("T")
	f.store.SetEmail("a@x.com")
}

var (
	yes = ConfirmFunc(func(string) bool { return true })
	no  = ConfirmFunc(func(string) bool { return false })
)
