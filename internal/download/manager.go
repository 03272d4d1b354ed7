package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dkudrin/taratdl/internal/audio"
	"github.com/dkudrin/taratdl/internal/config"
	"github.com/dkudrin/taratdl/internal/http"
	ioutils "github.com/dkudrin/taratdl/internal/io"
	"github.com/dkudrin/taratdl/internal/logging"
	"github.com/dkudrin/taratdl/internal/model"
)

// Fetcher is the subset of the HTTP client the download pipeline uses.
type Fetcher interface {
	// Open returns the response body as a stream for large downloads.
	Open(ctx context.Context, url string, timeout time.Duration) (*http.Response, error)

	// Get returns the response body in memory for small downloads.
	Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

// TagWriter writes metadata into a finished MP3 file.
type TagWriter interface {
	WriteTags(path string, info audio.TagInfo) error
}

// Manager coordinates track downloads.
type Manager struct {
	settings *config.Settings
	fetcher  Fetcher
	tagger   TagWriter
	images   *ioutils.ImageService
	playlist *audio.PlaylistCreator
	covers   *CoverRegistry
	limiter  *Limiter
	log      *slog.Logger
	sink     ProgressSink
}

// NewManager creates a new download Manager.
//
// A nil log discards log output; a nil sink discards progress updates.
func NewManager(settings *config.Settings, fetcher Fetcher, tagger TagWriter, log *slog.Logger, sink ProgressSink) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Manager{
		settings: settings,
		fetcher:  fetcher,
		tagger:   tagger,
		images:   ioutils.NewImageService(),
		playlist: audio.NewPlaylistCreator(),
		covers:   NewCoverRegistry(),
		limiter:  NewLimiter(settings.MaxConcurrentDownloads),
		log:      log,
		sink:     sink,
	}
}

// RunAll processes every track and returns the number that ended in a
// usable file on disk alongside the total submitted.
//
// Tracks are counted in whichever order they finish, not the order
// they appear in the list. A cancelled context stops admitting new
// work and unwinds in-flight transfers; RunAll still waits for every
// worker to report before returning, so no goroutine outlives the
// call. A worker panic is contained and counted as a failure.
func (m *Manager) RunAll(ctx context.Context, tracks []model.TrackRecord) (succeeded, total int) {
	total = len(tracks)
	if total == 0 {
		return 0, 0
	}

	results := make(chan bool)

	for i, track := range tracks {
		track := track // capture
		slot := i % m.limiter.Capacity()
		go func() {
			ok := false
			defer func() {
				if r := recover(); r != nil {
					m.log.Error("worker panic", "track", track.String(), "panic", fmt.Sprint(r))
					ok = false
				}
				results <- ok
			}()
			ok = m.process(ctx, track, slot)
		}()
	}

	for done := 1; done <= total; done++ {
		if <-results {
			succeeded++
		}
		m.sink.BatchProgress(done, total)
	}

	if m.settings.CreatePlaylists {
		m.writePlaylists(tracks)
	}

	return succeeded, total
}

// writePlaylists creates one plain M3U per artist folder, listing the
// MP3 files actually present on disk after the run.
func (m *Manager) writePlaylists(tracks []model.TrackRecord) {
	seen := make(map[string]struct{})
	for _, track := range tracks {
		dir := track.Dir(m.settings.OutputDir)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}

		paths, err := ioutils.ListMP3s(dir)
		if err != nil || len(paths) == 0 {
			continue
		}

		content := m.playlist.CreateM3U(paths)
		path := track.PlaylistPath(m.settings.OutputDir)
		if err := ioutils.WriteFile(path, []byte(content)); err != nil {
			m.log.Error("playlist write failed", "path", path, "error", err)
		}
	}
}

// trackTimeout returns the audio body timeout as a duration.
func (m *Manager) trackTimeout() time.Duration {
	return secs(m.settings.TrackTimeout)
}

// coverTimeout returns the cover image timeout as a duration.
func (m *Manager) coverTimeout() time.Duration {
	return secs(m.settings.CoverTimeout)
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// removePartial deletes a leftover temporary file, ignoring errors:
// there is nothing useful to do when the cleanup itself fails.
func removePartial(path string) {
	_ = os.Remove(path)
}
