package artifact

import (
	"context"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// LocalStore writes files into a directory.
//
// URLs are BaseURL joined with the file name. With an empty BaseURL they
// are file:// URLs of the absolute path.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed and returns a store writing into it.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUploadFailed, err, "create store directory")
	}
	return &LocalStore{dir: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Kind returns "local".
func (s *LocalStore) Kind() string { return "local" }

// Dir returns the directory files are written to.
func (s *LocalStore) Dir() string { return s.dir }

// Put writes data to dir/name.
func (s *LocalStore) Put(ctx context.Context, name, contentType string, data []byte) (Object, error) {
	if err := checkName(name); err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Object{}, errors.Wrap(errors.ErrCodeUploadFailed, err, "write %s", name)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Object{}, errors.Wrap(errors.ErrCodeUploadFailed, err, "write %s", name)
	}
	return s.object(name, contentType, int64(len(data))), nil
}

// Open opens dir/name for reading.
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, Object, error) {
	if err := checkName(name); err != nil {
		return nil, Object{}, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, Object{}, errors.New(errors.ErrCodeNotFound, "no file named %s", name)
	}
	if err != nil {
		return nil, Object{}, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Object{}, err
	}
	return f, s.object(name, mime.TypeByExtension(filepath.Ext(name)), info.Size()), nil
}

// Close does nothing.
func (s *LocalStore) Close() error { return nil }

func (s *LocalStore) object(name, contentType string, size int64) Object {
	u := (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(s.dir, name))}).String()
	if s.baseURL != "" {
		u = s.baseURL + "/" + url.PathEscape(name)
	}
	return Object{Name: name, Size: size, ContentType: contentType, URL: u}
}

var _ Store = (*LocalStore)(nil)
