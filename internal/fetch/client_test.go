package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raphi011/vsort/internal/imagecache"
)

func imageServer(t *testing.T, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/img.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/garbage.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("definitely not a png"))
	})
	mux.HandleFunc("/gone.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	mux.HandleFunc("/broken.png", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestClient_FetchRemote(t *testing.T) {
	t.Parallel()

	srv, _ := imageServer(t, encodePNG(t, 332, 272))
	c := NewClient(WithHTTPClient(srv.Client()))

	img, err := c.Fetch(context.Background(), imagecache.NewKey(srv.URL+"/img.png", 166, 136))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if img.Width != 166 || img.Height != 136 {
		t.Errorf("size = %dx%d, want 166x136", img.Width, img.Height)
	}
}

func TestClient_FetchErrors(t *testing.T) {
	t.Parallel()

	srv, _ := imageServer(t, nil)
	missingFile := filepath.Join(t.TempDir(), "nope.png")

	tests := []struct {
		name      string
		locator   string
		wantKind  error
		retryable bool
	}{
		{"not found", srv.URL + "/missing.png", imagecache.ErrSourceMissing, false},
		{"gone", srv.URL + "/gone.png", imagecache.ErrSourceMissing, false},
		{"bad gateway", srv.URL + "/broken.png", imagecache.ErrNetwork, true},
		{"undecodable", srv.URL + "/garbage.png", imagecache.ErrDecode, false},
		{"missing local file", missingFile, imagecache.ErrSourceMissing, false},
		{"empty locator", "", imagecache.ErrSourceMissing, false},
	}

	c := NewClient(WithHTTPClient(srv.Client()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.Fetch(context.Background(), imagecache.NewKey(tt.locator, 10, 10))
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("Fetch() error = %v, want %v", err, tt.wantKind)
			}
			if got := imagecache.Retryable(err); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	srv, _ := imageServer(t, nil)
	c := NewClient(WithHTTPClient(srv.Client()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Fetch(ctx, imagecache.NewKey(srv.URL+"/slow.png", 10, 10))
	if !errors.Is(err, imagecache.ErrNetwork) {
		t.Fatalf("Fetch() error = %v, want ErrNetwork", err)
	}
}

func TestClient_DiskTier(t *testing.T) {
	t.Parallel()

	srv, hits := imageServer(t, encodePNG(t, 20, 20))
	disk := NewDiskCache(t.TempDir(), time.Hour)
	loc := srv.URL + "/img.png"

	c := NewClient(WithHTTPClient(srv.Client()), WithDiskCache(disk))
	if _, err := c.Fetch(context.Background(), imagecache.NewKey(loc, 10, 10)); err != nil {
		t.Fatalf("first Fetch() error = %v", err)
	}
	if _, ok := disk.Get(loc); !ok {
		t.Fatal("download should be written to the disk tier")
	}

	// A new client (new session) with the same disk cache does not hit the network.
	c2 := NewClient(WithHTTPClient(srv.Client()), WithDiskCache(disk))
	img, err := c2.Fetch(context.Background(), imagecache.NewKey(loc, 5, 5))
	if err != nil {
		t.Fatalf("second Fetch() error = %v", err)
	}
	if img.Width != 5 {
		t.Errorf("width = %d, want 5", img.Width)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestClient_UndecodableIsNotKeptOnDisk(t *testing.T) {
	t.Parallel()

	srv, _ := imageServer(t, nil)
	disk := NewDiskCache(t.TempDir(), time.Hour)
	loc := srv.URL + "/garbage.png"

	c := NewClient(WithHTTPClient(srv.Client()), WithDiskCache(disk))
	if _, err := c.Fetch(context.Background(), imagecache.NewKey(loc, 10, 10)); !errors.Is(err, imagecache.ErrDecode) {
		t.Fatalf("Fetch() error = %v, want ErrDecode", err)
	}
	if _, ok := disk.Get(loc); ok {
		t.Error("undecodable bytes should be dropped from the disk tier")
	}
}

func TestClient_FetchLocal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := os.WriteFile(path, encodePNG(t, 40, 20), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewClient()
	for _, loc := range []string{path, "file://" + path} {
		img, err := c.Fetch(context.Background(), imagecache.NewKey(loc, 20, 20))
		if err != nil {
			t.Fatalf("Fetch(%q) error = %v", loc, err)
		}
		if img.Width != 20 || img.Height != 10 {
			t.Errorf("Fetch(%q) size = %dx%d, want 20x10", loc, img.Width, img.Height)
		}
	}
}

func TestClient_OversizedImageIsDecodeError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, withDeclaredSize(t, encodePNG(t, 8, 8), 20000, 20000), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewClient().Fetch(context.Background(), imagecache.NewKey(path, 166, 136))
	if !errors.Is(err, imagecache.ErrDecode) {
		t.Errorf("Fetch() error = %v, want ErrDecode", err)
	}
}

func TestIsRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		locator string
		want    bool
	}{
		{"http://x/img.png", true},
		{"https://x/img.png", true},
		{"/srv/media/a.png", false},
		{"file:///srv/a.png", false},
		{"C:/frames/a.png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.locator); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.locator, got, tt.want)
		}
	}
}
