package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a single status line while the store is resolved. It
// clears the line and exits when Stop is called or its context ends.
type Spinner struct {
	msg  string
	w    io.Writer
	ctx  context.Context
	halt context.CancelFunc
	done chan struct{}

	running  atomic.Bool
	stopOnce sync.Once
	wmu      sync.Mutex
}

// startSpinner draws msg on stderr until ctx ends or the spinner is stopped.
func startSpinner(ctx context.Context, msg string) *Spinner {
	s := newSpinnerTo(ctx, os.Stderr, msg)
	s.Start()
	return s
}

// newSpinnerTo returns an idle spinner that will draw on w.
func newSpinnerTo(ctx context.Context, w io.Writer, msg string) *Spinner {
	ctx, halt := context.WithCancel(ctx)
	return &Spinner{msg: msg, w: w, ctx: ctx, halt: halt, done: make(chan struct{})}
}

func (s *Spinner) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.done)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	frame := 0
	for {
		select {
		case <-s.ctx.Done():
			s.draw("\r" + strings.Repeat(" ", lipgloss.Width(s.msg)+2) + "\r")
			return
		case <-tick.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			s.draw(fmt.Sprintf("\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.msg)))
			frame++
		}
	}
}

func (s *Spinner) draw(text string) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	io.WriteString(s.w, text)
}

// Stop clears the line and waits for the animation to exit. Calling it
// again, or on a spinner that never started, is a no-op.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.halt()
		if s.running.Load() {
			<-s.done
		}
	})
}

// Succeed stops the spinner and prints msg as a success line.
func (s *Spinner) Succeed(msg string) {
	s.Stop()
	printSuccess("%s", msg)
}

// Fail stops the spinner and prints msg as an error line.
func (s *Spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the spinner's context has ended, either
// through its parent or through Stop.
func (s *Spinner) Cancelled() bool { return s.ctx.Err() != nil }
