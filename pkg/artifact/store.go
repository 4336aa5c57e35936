// Package artifact stores finished sheet files and hands back the links the
// print shop downloads them from.
//
// Three stores are provided:
//
//   - [LocalStore] writes into a directory, optionally served over HTTP by
//     the intake server.
//   - [GridFSStore] keeps files in a MongoDB GridFS bucket.
//   - [UploadStore] posts files to an external file host and records the
//     URL it returns. Files cannot be read back through it.
package artifact

import (
	"context"
	"io"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// Content types of stored files.
const (
	ContentTypePNG  = "image/png"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Object describes a stored file.
type Object struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url"`
}

// Store keeps named files. Putting a name twice replaces the first file.
type Store interface {
	// Kind names the backend, for logs and cache keys.
	Kind() string

	// Put stores data under name and returns where it can be fetched.
	Put(ctx context.Context, name, contentType string, data []byte) (Object, error)

	// Open returns the latest file stored under name. Stores that cannot
	// read back fail with ErrCodeUnsupported.
	Open(ctx context.Context, name string) (io.ReadCloser, Object, error)

	// Close releases the store's connections.
	Close() error
}

func checkName(name string) error { return errors.ValidateFilename(name) }
