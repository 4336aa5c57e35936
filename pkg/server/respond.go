package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/pipeline"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`

	// Files lists sheets already delivered when a later step failed.
	Files []pipeline.File `json:"files,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and writes it as JSON.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorFiles(w, r, err, nil)
}

// writeErrorFiles is writeError for failures after files were delivered.
func (s *Server) writeErrorFiles(w http.ResponseWriter, r *http.Request, err error, files []pipeline.File) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	var tl *tooLargeError
	if stderrors.As(err, &tl) {
		code = errors.ErrCodeInvalidInput
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err), Files: files})
}

func statusFor(err error) int {
	var tl *tooLargeError
	if stderrors.As(err, &tl) {
		return http.StatusRequestEntityTooLarge
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidOrder,
		errors.ErrCodeInvalidQuantity,
		errors.ErrCodeQuantityMismatch,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidFilename,
		errors.ErrCodeTooManyPhotos,
		errors.ErrCodePayloadIncomplete:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeUploadFailed, errors.ErrCodeNotifyFailed, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
