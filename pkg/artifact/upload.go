package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/httputil"
)

// UploadField is the multipart field files are sent in.
const UploadField = "files"

// UploadStore posts every file to a file-hosting endpoint and keeps the URL
// the endpoint answers with. The endpoint may answer with a single object
// {"url": ...} or a list of them; the first URL is used.
type UploadStore struct {
	endpoint string
	client   *httputil.Client
}

// NewUploadStore returns a store posting to endpoint. A non-empty token is
// sent as a bearer token.
func NewUploadStore(endpoint, token string) (*UploadStore, error) {
	if err := errors.ValidateURL(endpoint); err != nil {
		return nil, err
	}
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}
	return &UploadStore{endpoint: endpoint, client: httputil.NewClient(headers)}, nil
}

// WithHTTPClient returns a copy of s that sends through hc.
func (s *UploadStore) WithHTTPClient(hc *http.Client) *UploadStore {
	cp := *s
	cp.client = s.client.WithHTTPClient(hc)
	return &cp
}

// Kind returns "upload".
func (s *UploadStore) Kind() string { return "upload" }

type uploadedFile struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Put uploads data and returns the hosted URL.
func (s *UploadStore) Put(ctx context.Context, name, contentType string, data []byte) (Object, error) {
	if err := checkName(name); err != nil {
		return Object{}, err
	}

	body, formType, err := multipartBody(name, contentType, data)
	if err != nil {
		return Object{}, errors.Wrap(errors.ErrCodeUploadFailed, err, "encode %s", name)
	}

	var raw json.RawMessage
	err = s.client.Send(ctx, httputil.Request{
		Method:      http.MethodPost,
		URL:         s.endpoint,
		Body:        body,
		ContentType: formType,
	}, &raw)
	if err != nil {
		return Object{}, errors.Wrap(errors.ErrCodeUploadFailed, err, "upload %s", name)
	}

	uploaded, err := firstUpload(raw)
	if err != nil {
		return Object{}, errors.Wrap(errors.ErrCodeUploadFailed, err, "upload %s", name)
	}
	return Object{Name: name, Size: int64(len(data)), ContentType: contentType, URL: uploaded.URL}, nil
}

// Open is not supported: hosted files are fetched from their URL.
func (s *UploadStore) Open(context.Context, string) (io.ReadCloser, Object, error) {
	return nil, Object{}, errors.New(errors.ErrCodeUnsupported, "upload store cannot read files back")
}

// Close does nothing.
func (s *UploadStore) Close() error { return nil }

func multipartBody(name, contentType string, data []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fileDisposition(UploadField, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// fileDisposition builds a form-data Content-Disposition value for a file part.
func fileDisposition(field, name string) string {
	return fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(name))
}

func firstUpload(raw json.RawMessage) (uploadedFile, error) {
	raw = bytes.TrimSpace(raw)
	var files []uploadedFile
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &files); err != nil {
			return uploadedFile{}, err
		}
	} else {
		var one uploadedFile
		if err := json.Unmarshal(raw, &one); err != nil {
			return uploadedFile{}, err
		}
		files = append(files, one)
	}
	if len(files) == 0 || files[0].URL == "" {
		return uploadedFile{}, errors.New(errors.ErrCodeUploadFailed, "no file URL returned")
	}
	if err := errors.ValidateURL(files[0].URL); err != nil {
		return uploadedFile{}, err
	}
	return files[0], nil
}

var _ Store = (*UploadStore)(nil)
