// Package progress renders download progress on the console.
package progress

import (
	"fmt"
	"io"
	"sync"

	ansi "github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

// ConsoleSink displays a single overall progress bar counting
// completed tracks, with the description showing whichever track most
// recently started. It implements download.ProgressSink.
//
// Per-slot byte progress is not rendered here: a plain terminal bar
// cannot show several transfers at once. The TUI binary does.
type ConsoleSink struct {
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewConsoleSink creates a sink for a batch of total tracks writing to
// stdout.
func NewConsoleSink(total int) *ConsoleSink {
	return newConsoleSink(total, ansi.NewAnsiStdout())
}

func newConsoleSink(total int, w io.Writer) *ConsoleSink {
	bar := progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: ".",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Downloading..."),
	)
	return &ConsoleSink{bar: bar}
}

func (s *ConsoleSink) TrackStarted(_ int, label string, _ int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", label))
}

func (s *ConsoleSink) TrackProgress(int, int64, int64) {}

func (s *ConsoleSink) TrackFinished(int) {}

func (s *ConsoleSink) BatchProgress(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.bar.Set(done)
	if done == total {
		_ = s.bar.Finish()
	}
}
