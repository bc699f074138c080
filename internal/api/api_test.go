package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ansdev/patternhub/internal/index"
	"github.com/ansdev/patternhub/internal/patternsvc"
	"github.com/ansdev/patternhub/internal/storage"
	"github.com/ansdev/patternhub/internal/testutil"
)

func testAPI(t *testing.T, authEnabled bool, token string) (*httptest.Server, storage.Provider, *index.DB) {
	t.Helper()
	_, store := testutil.TestLibrary(t)
	db := testutil.TestDB(t)
	svc := patternsvc.NewService(store, db)
	srv := httptest.NewServer(NewRouter(svc, authEnabled, token, nil))
	t.Cleanup(srv.Close)
	return srv, store, db
}

func syncIndex(t *testing.T, db *index.DB, store storage.Provider) {
	t.Helper()
	if err := index.Sync(db, store, testutil.QuietLogger()); err != nil {
		t.Fatal(err)
	}
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGetPattern(t *testing.T) {
	srv, store, _ := testAPI(t, false, "")
	content := "# Singleton\n\nEnsures a class has only one instance.\n"
	_ = store.Write("singleton", []byte(content))

	resp := get(t, srv.URL+"/patterns/singleton")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var detail PatternDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Content != content {
		t.Errorf("content = %q, want exact file text", detail.Content)
	}
	if detail.Name != "singleton" || detail.Title != "Singleton" {
		t.Errorf("detail = %+v", detail)
	}
}

func TestGetPattern_NotFound(t *testing.T) {
	srv, _, _ := testAPI(t, false, "")
	resp := get(t, srv.URL+"/patterns/nonexistent")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListPatterns(t *testing.T) {
	srv, store, db := testAPI(t, false, "")
	_ = store.Write("singleton", []byte("# Singleton\na"))
	_ = store.Write("factory", []byte("# Factory\nb"))
	syncIndex(t, db, store)

	resp := get(t, srv.URL+"/patterns")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body PatternListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 || len(body.Patterns) != 2 {
		t.Fatalf("body = %+v, want 2 patterns", body)
	}
	if body.Patterns[0].Name != "factory" || body.Patterns[1].Name != "singleton" {
		t.Errorf("patterns = %+v, want name order", body.Patterns)
	}
}

func TestListPatterns_Empty(t *testing.T) {
	srv, _, _ := testAPI(t, false, "")
	resp := get(t, srv.URL+"/patterns")
	var body PatternListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 0 || body.Patterns == nil {
		t.Errorf("body = %+v, want empty non-nil list", body)
	}
}

func TestGetPatternHTML(t *testing.T) {
	srv, store, _ := testAPI(t, false, "")
	_ = store.Write("factory", []byte("# Factory\n\nSome **bold** text.\n"))

	resp := get(t, srv.URL+"/patterns/factory/html")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "<strong>bold</strong>") {
		t.Errorf("html = %q", body)
	}
}

func TestSearch(t *testing.T) {
	srv, store, db := testAPI(t, false, "")
	_ = store.Write("observer", []byte("# Observer\nNotifies subscribers about events."))
	syncIndex(t, db, store)

	resp := get(t, srv.URL+"/search?q=subscribers")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].Name != "observer" {
		t.Errorf("results = %+v", body.Results)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	srv, _, _ := testAPI(t, false, "")
	resp := get(t, srv.URL+"/search")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	srv, _, _ := testAPI(t, true, "secret")
	resp := get(t, srv.URL+"/patterns")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	srv, _, _ := testAPI(t, true, "secret")

	req, _ := http.NewRequest("GET", srv.URL+"/patterns", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestTraversalName_NotFound(t *testing.T) {
	srv, _, _ := testAPI(t, false, "")
	resp := get(t, srv.URL+"/patterns/..%2F..%2Fetc%2Fpasswd")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
