// Package pipeline runs a magnet order from crops to the print shop's inbox.
//
// This package implements the render → deliver → notify pipeline shared by
// the CLI and the intake server, so both entry points cache, name and
// deliver sheets the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Render: lay the order out and encode PNG files (cached by order hash)
//  2. Deliver: put every file in the artifact store, or keep it for attaching
//  3. Notify: mail the order summary with links or attachments
//
// [Runner.Render] runs the first stage on its own; [Runner.Submit] runs all
// three after validating the order.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	runner.Store = store
//	runner.Notifier = notifier
//	result, err := runner.Submit(ctx, info, sources, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range result.Payload.Files {
//	    fmt.Println(f.URL)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/magnetsheet/pkg/errors"
	"github.com/matzehuels/magnetsheet/pkg/order"
	"github.com/matzehuels/magnetsheet/pkg/sheet"
)

// DefaultMode is the output mode used when Options.Mode is empty.
const DefaultMode = sheet.ModeStacked

// CutListExt is the extension of the cut list workbook.
const CutListExt = "xlsx"

// Stage names a step of [Runner.Submit].
type Stage string

const (
	StageRender Stage = "render"
	StageUpload Stage = "upload"
	StageNotify Stage = "notify"
)

// Options contains all configuration for one pipeline run.
type Options struct {
	// Mode is "stacked" (one tall PNG) or "pages" (one PNG per page).
	Mode string `json:"mode,omitempty"`

	// Attach sends files as mail attachments instead of uploading them.
	Attach bool `json:"attach,omitempty"`

	// Refresh ignores cached sheets and uploads.
	Refresh bool `json:"refresh,omitempty"`

	// CutList adds an .xlsx placement report to the files.
	CutList bool `json:"cutlist,omitempty"`

	// Date stamps file names. Defaults to now.
	Date time.Time `json:"date,omitempty"`

	// Workers overrides the engine's decode concurrency when positive.
	Workers int `json:"workers,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, when set, is called as Submit enters each stage.
	Progress func(Stage) `json:"-"`

	mode      sheet.Mode
	validated bool
}

func (o *Options) report(s Stage) {
	if o.Progress != nil {
		o.Progress(s)
	}
}

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	mode, err := sheet.ParseMode(o.Mode)
	if err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers cannot be negative")
	}
	o.mode = mode
	o.Mode = string(mode)
	if o.Date.IsZero() {
		o.Date = time.Now()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// File is one delivered artifact.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
	Data        []byte `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Files are the rendered artifacts in delivery order.
	Files []File `json:"files"`

	// Payload is what the notifier was given. Empty after Render alone.
	Payload order.Payload `json:"payload"`

	// Diagnostics lists magnets left blank.
	Diagnostics []sheet.Diagnostic `json:"diagnostics,omitempty"`

	// Stats contains counts and timings.
	Stats Stats `json:"stats"`

	// CacheHit reports whether the files came from the sheet cache.
	CacheHit bool `json:"cacheHit"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Instances  int           `json:"instances"`
	Pages      int           `json:"pages"`
	RenderTime time.Duration `json:"renderTime"`
	UploadTime time.Duration `json:"uploadTime"`
	NotifyTime time.Duration `json:"notifyTime"`
}

// orderFiles converts the result files into payload entries.
func (r *Result) orderFiles() []order.File {
	out := make([]order.File, len(r.Files))
	for i, f := range r.Files {
		out[i] = order.File{Name: f.Name, Size: f.Size, URL: f.URL}
	}
	return out
}
