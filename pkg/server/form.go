package server

import (
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/order"
)

// Form field names.
const (
	fieldOrderNumber  = "orderNumber"
	fieldCustomerName = "customerName"
	fieldPhone        = "phone"
	fieldTotalMagnets = "totalMagnets"
	fieldPhoto        = "photo"
	fieldQuantity     = "quantity"
)

// formMemory is how much of a multipart body is held in memory before
// file parts spill to disk.
const formMemory = 32 << 20

// tooLargeError marks a request or photo over its size limit.
type tooLargeError struct{ msg string }

func (e *tooLargeError) Error() string { return e.msg }

// parseOrderForm reads an order from a multipart request. Photos are not
// decoded here; that is left to the engine.
func (s *Server) parseOrderForm(w http.ResponseWriter, r *http.Request) (order.Info, []order.Source, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxPhoto*order.MaxMagnets+formMemory)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var mbe *http.MaxBytesError
		if stderrors.As(err, &mbe) {
			return order.Info{}, nil, &tooLargeError{msg: "request body too large"}
		}
		return order.Info{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read multipart form")
	}
	form := r.MultipartForm
	defer form.RemoveAll()

	info := order.Info{
		OrderNumber:  firstValue(form, fieldOrderNumber),
		CustomerName: firstValue(form, fieldCustomerName),
		Phone:        firstValue(form, fieldPhone),
	}.Normalize()
	if v := firstValue(form, fieldTotalMagnets); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return info, nil, errors.New(errors.ErrCodeInvalidQuantity, "totalMagnets must be a number, got %q", v)
		}
		info.TotalMagnets = n
	}

	sources, err := s.readPhotos(form)
	if err != nil {
		return info, nil, err
	}

	quantities := form.Value[fieldQuantity]
	if len(quantities) != len(sources) {
		return info, nil, errors.New(errors.ErrCodeInvalidInput, "%d photos but %d quantities", len(sources), len(quantities))
	}
	for i, q := range quantities {
		n, err := strconv.Atoi(strings.TrimSpace(q))
		if err != nil {
			return info, nil, errors.New(errors.ErrCodeInvalidQuantity, "quantity %d must be a number, got %q", i+1, q)
		}
		sources[i].Quantity = n
	}
	order.AssignIDs(sources)
	return info, sources, nil
}

// readPhotos returns one source per photo: file parts when any were sent,
// otherwise data: URL values.
func (s *Server) readPhotos(form *multipart.Form) ([]order.Source, error) {
	files := form.File[fieldPhoto]
	values := form.Value[fieldPhoto]
	if n := max(len(files), len(values)); n > order.MaxMagnets {
		return nil, errors.New(errors.ErrCodeTooManyPhotos, "%d photos, at most %d allowed", n, order.MaxMagnets)
	}

	if len(files) == 0 {
		sources := make([]order.Source, len(values))
		for i, v := range values {
			if int64(len(v)) > s.maxPhoto {
				return nil, &tooLargeError{msg: "photo " + strconv.Itoa(i+1) + " too large"}
			}
			sources[i].Data = []byte(v)
		}
		return sources, nil
	}

	sources := make([]order.Source, len(files))
	for i, fh := range files {
		if fh.Size > s.maxPhoto {
			return nil, &tooLargeError{msg: "photo " + fh.Filename + " too large"}
		}
		data, err := readPart(fh)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read photo %s", fh.Filename)
		}
		sources[i] = order.Source{ID: photoID(fh.Filename), Data: data}
	}
	return sources, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// photoID derives a source ID from an uploaded file name, or leaves it
// empty for AssignIDs.
func photoID(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
