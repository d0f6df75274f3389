package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theia-art/theia/pkg/cache"
	"github.com/theia-art/theia/pkg/errors"
	"github.com/theia-art/theia/pkg/observability"
	"github.com/theia-art/theia/pkg/pipeline"
	"github.com/theia-art/theia/pkg/recipe"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, LogInfo)
	stats := observability.NewCounters()
	observability.SetPipelineHooks(stats)
	observability.SetCacheHooks(stats)
	srv := httptest.NewServer(c.previewRouter(pipeline.NewRunner(fc, c.Logger), stats))
	t.Cleanup(func() {
		srv.Close()
		observability.Reset()
	})
	return srv
}

func TestServeHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "theia/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
}

func TestServeGridPNG(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/grid.png?size=200&num=3&jitter=5&seed=9&padding=10"

	get := func() (*http.Response, []byte) {
		t.Helper()
		resp, err := http.Get(url)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, body
	}

	resp, first := get()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, first)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("first request X-Cache = %q, want MISS", resp.Header.Get("X-Cache"))
	}
	img, err := png.Decode(bytes.NewReader(first))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 220 || b.Dy() != 220 {
		t.Errorf("bounds = %v, want 220x220", b)
	}

	resp, second := get()
	if resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache = %q, want HIT", resp.Header.Get("X-Cache"))
	}
	if !bytes.Equal(first, second) {
		t.Error("cached preview differs from the rendered one")
	}
}

func TestServeGridPNGPost(t *testing.T) {
	srv := newTestServer(t)
	body := "seed = 1\n[builder]\nkind = \"radial\"\nsize = 120\nangular = 5\nrings = 2\n"
	resp, err := http.Post(srv.URL+"/grid.png?padding=0", "application/toml", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, msg)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 120 {
		t.Errorf("width = %d, want 120", img.Bounds().Dx())
	}
}

func TestServeBadRequests(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		do   func() (*http.Response, error)
	}{
		{"non-numeric size", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?size=big") }},
		{"size too large", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?size=100000") }},
		{"num below two", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?num=1") }},
		{"sparsify out of range", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?sparsify=2") }},
		{"bad bool", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?radial=maybe") }},
		{"bad seed", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?seed=-1") }},
		{"too many square points", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?size=100&num=1000000") }},
		{"too many radial points", func() (*http.Response, error) {
			return http.Get(srv.URL + "/grid.png?radial=true&rings=1000000&angular=1000000")
		}},
		{"padding too large", func() (*http.Response, error) { return http.Get(srv.URL + "/grid.png?padding=1000000") }},
		{"posted recipe too many points", func() (*http.Response, error) {
			body := "[builder]\nkind = \"square\"\nsize = 100\nnum = 1000000\n"
			return http.Post(srv.URL+"/grid.png", "application/toml", strings.NewReader(body))
		}},
		{"bad recipe", func() (*http.Response, error) {
			return http.Post(srv.URL+"/grid.png", "application/toml", strings.NewReader("[builder]\nkind = \"hex\""))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.do()
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestRecipeFromQueryDefaults(t *testing.T) {
	rec, pad, err := recipeFromQuery(nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Builder.Size != 512 || rec.Builder.Num != 5 || rec.Seed != 42 || pad != defaultPreviewPad {
		t.Errorf("defaults = %+v, padding %d", rec, pad)
	}
	if len(rec.Steps) != 0 {
		t.Errorf("no steps expected by default, got %v", rec.Steps)
	}
}

func TestCheckPreviewLimits(t *testing.T) {
	tests := []struct {
		name    string
		builder recipe.Builder
		padding int
		ok      bool
	}{
		{"square at limit", recipe.Builder{Kind: recipe.KindSquare, Size: 512, Num: 256}, 0, true},
		{"square over limit", recipe.Builder{Kind: recipe.KindSquare, Size: 512, Num: 257}, 0, false},
		{"radial at limit", recipe.Builder{Kind: recipe.KindRadial, Size: 512, Rings: 256, Angular: 256}, 0, true},
		{"radial over limit", recipe.Builder{Kind: recipe.KindRadial, Size: 512, Rings: 257, Angular: 256}, 0, false},
		{"degenerate radial", recipe.Builder{Kind: recipe.KindRadial, Size: 512, Rings: 1 << 30}, 0, true},
		{"size over limit", recipe.Builder{Kind: recipe.KindSquare, Size: maxPreviewSize + 1, Num: 2}, 0, false},
		{"padding over limit", recipe.Builder{Kind: recipe.KindSquare, Size: 64, Num: 2}, maxPreviewSize + 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPreviewLimits(&recipe.Recipe{Builder: tt.builder}, tt.padding)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestServeStats(t *testing.T) {
	srv := newTestServer(t)
	for range 2 {
		resp, err := http.Get(srv.URL + "/grid.png?size=64&num=3")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var snap observability.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if got := snap.Jobs["preview"].Runs; got != 2 {
		t.Errorf("preview runs = %d, want 2", got)
	}
	if cs := snap.Cache["preview"]; cs.Hits != 1 || cs.Misses != 1 {
		t.Errorf("preview cache = %+v, want 1 hit and 1 miss", cs)
	}
}
