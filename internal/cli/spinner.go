package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/magnetsheet/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// stageMessages is what the spinner shows while Submit is in each stage.
var stageMessages = map[pipeline.Stage]string{
	pipeline.StageRender: "Rendering sheets",
	pipeline.StageUpload: "Uploading files",
	pipeline.StageNotify: "Notifying the print shop",
}

// Spinner animates a status line while an order moves through the
// pipeline. Its message follows the current stage; see [Spinner.OnStage].
type Spinner struct {
	out     io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}

	mu      sync.Mutex
	prefix  string
	message string
	widest  int
}

// newSpinner returns a spinner labelled with prefix, for example the order
// number. It stops drawing when ctx is cancelled.
func newSpinner(ctx context.Context, out io.Writer, prefix string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     out,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		prefix:  prefix,
		message: "Starting",
	}
}

// OnStage switches the message to the given pipeline stage. It matches
// pipeline.Options.Progress.
func (s *Spinner) OnStage(stage pipeline.Stage) {
	msg, ok := stageMessages[stage]
	if !ok {
		msg = string(stage)
	}
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(i)
			}
		}
	}()
}

func (s *Spinner) line() string {
	if s.prefix == "" {
		return s.message + "..."
	}
	return s.prefix + ": " + s.message + "..."
}

func (s *Spinner) draw(frame int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.line()
	s.widest = max(s.widest, lipgloss.Width(text))
	fmt.Fprintf(s.out, "\r%s %s", styleSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]), StyleDim.Render(text))
}

// Stop stops the animation and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.widest == 0 {
		return
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.widest+2))
}

// StopWithSuccess stops the spinner and prints a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the caller's context ended, as opposed to the
// spinner being stopped normally.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
