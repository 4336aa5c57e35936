package artifact

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/magnetsheet/pkg/errors"
)

// DefaultBucket is the GridFS bucket sheets are stored in.
const DefaultBucket = "sheets"

// GridFSConfig configures a GridFSStore.
type GridFSConfig struct {
	URI      string // mongodb://...
	Database string
	Bucket   string // DefaultBucket when empty
	BaseURL  string // prefix of the returned download links
}

// GridFSStore keeps files in a MongoDB GridFS bucket.
type GridFSStore struct {
	client  *mongo.Client
	bucket  *gridfs.Bucket
	baseURL string

	// The bucket's deadlines are shared state; mu serializes operations
	// that set them from a context.
	mu sync.Mutex
}

// NewGridFSStore connects to MongoDB and opens the bucket.
func NewGridFSStore(ctx context.Context, cfg GridFSConfig) (*GridFSStore, error) {
	if cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "gridfs store needs a database name")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	name := cfg.Bucket
	if name == "" {
		name = DefaultBucket
	}
	bucket, err := gridfs.NewBucket(client.Database(cfg.Database), options.GridFSBucket().SetName(name))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open bucket %s", name)
	}
	return &GridFSStore{client: client, bucket: bucket, baseURL: strings.TrimRight(cfg.BaseURL, "/")}, nil
}

// Kind returns "gridfs".
func (s *GridFSStore) Kind() string { return "gridfs" }

// Put uploads data as a new revision of name.
func (s *GridFSStore) Put(ctx context.Context, name, contentType string, data []byte) (Object, error) {
	if err := checkName(name); err != nil {
		return Object{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return Object{}, err
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	if _, err := s.bucket.UploadFromStream(name, bytes.NewReader(data), opts); err != nil {
		return Object{}, errors.Wrap(errors.ErrCodeUploadFailed, err, "upload %s", name)
	}
	return s.object(name, contentType, int64(len(data))), nil
}

// Open streams the latest revision of name.
func (s *GridFSStore) Open(ctx context.Context, name string) (io.ReadCloser, Object, error) {
	if err := checkName(name); err != nil {
		return nil, Object{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, Object{}, err
	}

	stream, err := s.bucket.OpenDownloadStreamByName(name)
	if stderrors.Is(err, gridfs.ErrFileNotFound) {
		return nil, Object{}, errors.New(errors.ErrCodeNotFound, "no file named %s", name)
	}
	if err != nil {
		return nil, Object{}, errors.Wrap(errors.ErrCodeNetwork, err, "open %s", name)
	}

	file := stream.GetFile()
	var meta struct {
		ContentType string `bson:"contentType"`
	}
	if len(file.Metadata) > 0 {
		_ = bson.Unmarshal(file.Metadata, &meta)
	}
	return stream, s.object(name, meta.ContentType, file.Length), nil
}

// Close disconnects from MongoDB.
func (s *GridFSStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *GridFSStore) object(name, contentType string, size int64) Object {
	u := ""
	if s.baseURL != "" {
		u = s.baseURL + "/" + url.PathEscape(name)
	}
	return Object{Name: name, Size: size, ContentType: contentType, URL: u}
}

// deadline returns the context deadline, or the zero time for none.
func deadline(ctx context.Context) time.Time {
	d, _ := ctx.Deadline()
	return d
}

var _ Store = (*GridFSStore)(nil)
