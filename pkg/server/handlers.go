package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/magnetsheet/pkg/buildinfo"
	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/pipeline"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	g := sheet.A4
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "count must be a non-negative number"))
			return
		}
		writeJSON(w, http.StatusOK, struct {
			sheet.Geometry
			Count int `json:"count"`
			Pages int `json:"pages"`
		}{g, n, g.Pages(n)})
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleSheet renders a preview. The order is drawn as given, so the
// quantities need not match the declared total yet.
//
// With ?page=N (1-based) one page is returned; otherwise all pages stacked.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := sheet.ParseMode(q.Get("mode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page := 1
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "page must be a positive number"))
			return
		}
		mode = sheet.ModePages
	}

	info, sources, err := s.parseOrderForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := info.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, hit, err := s.runner.RenderWithCacheInfo(r.Context(), info, sources, pipeline.Options{Mode: string(mode)})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(res.Files) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidQuantity, "order has no magnets to print"))
		return
	}
	if page > len(res.Files) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "page %d of %d", page, len(res.Files)))
		return
	}

	f := res.Files[page-1]
	h := w.Header()
	h.Set("Content-Type", f.ContentType)
	h.Set("Content-Length", strconv.FormatInt(f.Size, 10))
	h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", f.Name))
	h.Set("X-Sheet-Pages", strconv.Itoa(res.Stats.Pages))
	h.Set("X-Sheet-Skipped", strconv.Itoa(len(res.Diagnostics)))
	h.Set("X-Cache", cacheStatus(hit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

// handleOrder submits an order. ?mode= and ?attach=true override the
// server defaults.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Mode:    q.Get("mode"),
		Attach:  s.attach,
		CutList: s.cutList,
	}
	if v := q.Get("attach"); v != "" {
		attach, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "attach must be true or false"))
			return
		}
		opts.Attach = attach
	}

	info, sources, err := s.parseOrderForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Submit(r.Context(), info, sources, opts)
	if err != nil {
		var delivered []pipeline.File
		if res != nil {
			delivered = res.Files
		}
		s.writeErrorFiles(w, r, err, delivered)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(res.CacheHit))
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if s.runner.Store == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no artifact store configured"))
		return
	}
	rc, obj, err := s.runner.Store.Open(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.Close()

	h := w.Header()
	if obj.ContentType != "" {
		h.Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		h.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", obj.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("stream file", "name", obj.Name, "err", err)
	}
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
