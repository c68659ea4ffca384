package appserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"remotectl/internal/actions"
	"remotectl/internal/assets"
	"remotectl/internal/dispatch"
	"remotectl/internal/page"
)

const testSession = "3f1c6a52-session"

type recordingLauncher struct {
	mu   sync.Mutex
	cmds []string
}

func (l *recordingLauncher) Launch(cmd string) error {
	l.mu.Lock()
	l.cmds = append(l.cmds, cmd)
	l.mu.Unlock()
	return nil
}

func (l *recordingLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cmds)
}

type panickingDispatcher struct{}

func (panickingDispatcher) Serve(http.ResponseWriter, string) { panic("boom") }

func makeDeps(t *testing.T, launcher dispatch.Launcher) Deps {
	t.Helper()
	root := filepath.Join(t.TempDir(), "static")
	if err := os.MkdirAll(filepath.Join(root, "css"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "css", "main.css"), []byte("h1{}"), 0o644); err != nil {
		t.Fatalf("write css failed: %v", err)
	}
	state := actions.NewState(actions.Config{
		SessionID: testSession,
		Title:     "Box",
		Actions: []actions.Action{
			{DisplayName: "Reboot", Cmd: "sudo reboot", ID: actions.ActionID("sudo reboot")},
			{DisplayName: "Lights", Cmd: "lights toggle", ID: actions.ActionID("lights toggle")},
		},
	})
	return Deps{
		State:      state,
		Renderer:   page.NewRenderer(),
		Assets:     assets.NewServer(root, nil),
		Dispatcher: dispatch.NewDispatcher(state, launcher, nil),
	}
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func TestServer_RebootScenario(t *testing.T) {
	launcher := &recordingLauncher{}
	srv, err := NewServer(makeDeps(t, launcher))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	code, body, hdr := get(t, ts.URL+"/"+testSession+"/")
	if code != http.StatusOK {
		t.Fatalf("expected 200 for page, got %d", code)
	}
	if !strings.HasPrefix(hdr.Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type %q", hdr.Get("Content-Type"))
	}
	if strings.Count(body, "<button") != 2 || !strings.Contains(body, ">Reboot</button>") {
		t.Fatalf("unexpected page: %s", body)
	}
	trigger := "control/" + actions.ActionID("sudo reboot")
	if !strings.Contains(body, trigger) {
		t.Fatalf("page missing trigger %s: %s", trigger, body)
	}

	code, body, _ = get(t, ts.URL+"/"+testSession+"/"+trigger)
	if code != http.StatusAccepted {
		t.Fatalf("expected 202 for control, got %d", code)
	}
	if body != "" {
		t.Fatalf("expected empty control body, got %q", body)
	}
	if launcher.count() != 1 || launcher.cmds[0] != "sudo reboot" {
		t.Fatalf("expected one sudo reboot launch, got %v", launcher.cmds)
	}
}

func TestServer_UnknownControlIsNotFound(t *testing.T) {
	launcher := &recordingLauncher{}
	srv, err := NewServer(makeDeps(t, launcher))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	code, _, _ := get(t, ts.URL+"/"+testSession+"/control/deadbeefdeadbeef")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if launcher.count() != 0 {
		t.Fatal("unknown control launched a command")
	}
}

func TestServer_OnlySessionRoutesExist(t *testing.T) {
	launcher := &recordingLauncher{}
	srv, err := NewServer(makeDeps(t, launcher))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	id := actions.ActionID("sudo reboot")
	for _, path := range []string{
		"/",
		"/wrong-session/",
		"/wrong-session/control/" + id,
		"/" + testSession,
		"/" + testSession + "/control/",
		"/static/css",
	} {
		if code, _, _ := get(t, ts.URL+path); code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, code)
		}
	}
	if launcher.count() != 0 {
		t.Fatal("no command should have been launched")
	}
}

func TestServer_StaticRoutes(t *testing.T) {
	srv, err := NewServer(makeDeps(t, &recordingLauncher{}))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	code, body, hdr := get(t, ts.URL+"/static/css/main.css")
	if code != http.StatusOK || body != "h1{}" {
		t.Fatalf("expected stylesheet, got %d %q", code, body)
	}
	if hdr.Get("Content-Type") != "text/css; charset=utf-8" {
		t.Fatalf("unexpected content type %q", hdr.Get("Content-Type"))
	}
	if code, _, _ := get(t, ts.URL+"/static/x/y.txt"); code != http.StatusNotFound {
		t.Fatalf("expected 404 for txt, got %d", code)
	}
	for _, path := range []string{"/static/../main.css", "/static/%2e%2e/main.css"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 for traversal, got %d", path, rec.Code)
		}
	}
}

func TestServer_StaticAssetNamesAreDecodedOnce(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "css"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	for name, body := range map[string]string{
		"50%.css":  "percent",
		"a%41.css": "literal",
		"aA.css":   "decoded",
	} {
		if err := os.WriteFile(filepath.Join(root, "css", name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s failed: %v", name, err)
		}
	}
	deps := makeDeps(t, &recordingLauncher{})
	deps.Assets = assets.NewServer(root, nil)
	srv, err := NewServer(deps)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	cases := map[string]string{
		"/static/css/50%25.css":     "percent",
		"/static/css/%35%30%25.css": "percent",
		"/static/css/a%2541.css":    "literal",
		"/static/css/a%41.css":      "decoded",
		"/static/%63ss/a%2541.css":  "literal",
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Fatalf("%s: expected 200 %q, got %d %q", path, want, rec.Code, rec.Body.String())
		}
	}
}

func TestServer_PanicIsContainedToRequest(t *testing.T) {
	deps := makeDeps(t, &recordingLauncher{})
	deps.Dispatcher = panickingDispatcher{}
	srv, err := NewServer(deps)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	if code, _, _ := get(t, ts.URL+"/"+testSession+"/control/anything"); code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from recovered panic, got %d", code)
	}
	if code, _, _ := get(t, ts.URL+"/"+testSession+"/"); code != http.StatusOK {
		t.Fatalf("server should keep serving after a panic, got %d", code)
	}
}

func TestServer_ConcurrentControls(t *testing.T) {
	launcher := &recordingLauncher{}
	srv, err := NewServer(makeDeps(t, launcher))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ids := []string{actions.ActionID("sudo reboot"), actions.ActionID("lights toggle")}
	errs := make(chan string, len(ids))
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			resp, err := http.Get(ts.URL + "/" + testSession + "/control/" + id)
			if err != nil {
				errs <- err.Error()
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusAccepted {
				errs <- resp.Status
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatalf("concurrent control failed: %s", e)
	}
	if launcher.count() != 2 {
		t.Fatalf("expected two launches, got %d", launcher.count())
	}
}

func TestNewServer_RejectsUnsafeSessionID(t *testing.T) {
	for _, id := range []string{"", "a/b", "{x}", "a*", "static", ".."} {
		deps := makeDeps(t, &recordingLauncher{})
		deps.State = actions.NewState(actions.Config{SessionID: id})
		if _, err := NewServer(deps); err == nil {
			t.Fatalf("expected error for session id %q", id)
		}
	}
}
