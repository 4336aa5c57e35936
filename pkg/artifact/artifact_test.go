package artifact

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "out"), "https://shop.example.com/files/")
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	defer s.Close()

	obj, err := s.Put(ctx, "magnets-1042-Ana Pérez.png", ContentTypePNG, []byte("png"))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if obj.Size != 3 || obj.ContentType != ContentTypePNG {
		t.Errorf("Put() = %+v", obj)
	}
	if want := "https://shop.example.com/files/magnets-1042-Ana%20P%C3%A9rez.png"; obj.URL != want {
		t.Errorf("URL = %q, want %q", obj.URL, want)
	}

	rc, got, err := s.Open(ctx, "magnets-1042-Ana Pérez.png")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "png" || got.Size != 3 || got.ContentType != ContentTypePNG {
		t.Errorf("Open() = %q, %+v", data, got)
	}

	if _, _, err := s.Open(ctx, "missing.png"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Open(missing) error = %v", err)
	}
	if _, err := s.Put(ctx, "../escape.png", ContentTypePNG, nil); !errors.Is(err, errors.ErrCodeInvalidFilename) {
		t.Errorf("Put(traversal) error = %v", err)
	}

	leftovers, _ := filepath.Glob(filepath.Join(s.Dir(), "*.part"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestLocalStoreFileURL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	obj, err := s.Put(context.Background(), "a.png", ContentTypePNG, []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(obj.URL, "file://") || !strings.HasSuffix(obj.URL, "/a.png") {
		t.Errorf("URL = %q, want file:// URL", obj.URL)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.png")); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestUploadStore(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"list response", `[{"url": "https://cdn.example.com/f/abc.png", "name": "a.png"}]`},
		{"object response", `{"url": "https://cdn.example.com/f/abc.png"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotName, gotType, gotData string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				f, hdr, err := r.FormFile(UploadField)
				if err != nil {
					t.Errorf("FormFile: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				defer f.Close()
				b, _ := io.ReadAll(f)
				gotName, gotType, gotData = hdr.Filename, hdr.Header.Get("Content-Type"), string(b)
				w.Write([]byte(tt.response))
			}))
			defer server.Close()

			s, err := NewUploadStore(server.URL, "secret")
			if err != nil {
				t.Fatal(err)
			}
			s = s.WithHTTPClient(server.Client())

			obj, err := s.Put(context.Background(), "a.png", ContentTypePNG, []byte("png-bytes"))
			if err != nil {
				t.Fatalf("Put() error: %v", err)
			}
			if obj.URL != "https://cdn.example.com/f/abc.png" || obj.Size != 9 {
				t.Errorf("Put() = %+v", obj)
			}
			if gotAuth != "Bearer secret" || gotName != "a.png" || gotType != ContentTypePNG || gotData != "png-bytes" {
				t.Errorf("request: auth=%q name=%q type=%q data=%q", gotAuth, gotName, gotType, gotData)
			}
		})
	}
}

func TestFileDisposition(t *testing.T) {
	for _, name := range []string{"a.png", `say "hi".png`, `back\slash.png`, "magnets-7-José-2026-10-19.png"} {
		disp, params, err := mime.ParseMediaType(fileDisposition(UploadField, name))
		if err != nil {
			t.Fatalf("ParseMediaType(%q): %v", name, err)
		}
		if disp != "form-data" || params["name"] != UploadField || params["filename"] != name {
			t.Errorf("fileDisposition(%q) parsed as %q %v", name, disp, params)
		}
	}
}

func TestUploadStoreFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"empty list", http.StatusOK, []any{}},
		{"missing url", http.StatusOK, map[string]string{"name": "a.png"}},
		{"unsafe url", http.StatusOK, map[string]string{"url": "javascript:alert(1)"}},
		{"rejected", http.StatusForbidden, map[string]string{"error": "bad token"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			s, _ := NewUploadStore(server.URL, "")
			s = s.WithHTTPClient(server.Client())
			if _, err := s.Put(context.Background(), "a.png", ContentTypePNG, []byte("x")); !errors.Is(err, errors.ErrCodeUploadFailed) {
				t.Errorf("Put() error = %v, want %s", err, errors.ErrCodeUploadFailed)
			}
		})
	}
}

func TestUploadStoreOpenUnsupported(t *testing.T) {
	s, err := NewUploadStore("https://uploads.example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Open(context.Background(), "a.png"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Open() error = %v", err)
	}
	if _, err := NewUploadStore("ftp://example.com", ""); err == nil {
		t.Error("NewUploadStore should reject non-http endpoints")
	}
}

func TestGridFSStore(t *testing.T) {
	uri := os.Getenv("MAGNETSHEET_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MAGNETSHEET_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewGridFSStore(ctx, GridFSConfig{URI: uri, Database: "magnetsheet_test", BaseURL: "https://shop.example.com/files"})
	if err != nil {
		t.Fatalf("NewGridFSStore() error: %v", err)
	}
	defer s.Close()

	if _, err := s.Put(ctx, "gridfs-test.png", ContentTypePNG, []byte("first")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	obj, err := s.Put(ctx, "gridfs-test.png", ContentTypePNG, []byte("second"))
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if obj.URL != "https://shop.example.com/files/gridfs-test.png" {
		t.Errorf("URL = %q", obj.URL)
	}

	rc, got, err := s.Open(ctx, "gridfs-test.png")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" || got.ContentType != ContentTypePNG {
		t.Errorf("Open() = %q, %+v; want latest revision", data, got)
	}
}

func TestGridFSStoreNeedsDatabase(t *testing.T) {
	if _, err := NewGridFSStore(context.Background(), GridFSConfig{URI: "mongodb://localhost"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}
