package download

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/dkudrin/taratdl/internal/audio"
	"github.com/dkudrin/taratdl/internal/http"
	ioutils "github.com/dkudrin/taratdl/internal/io"
	"github.com/dkudrin/taratdl/internal/model"
)

// chunkSize is the copy buffer size for streaming audio bodies.
const chunkSize = 8192

// process handles one track end to end and reports whether a usable
// audio file exists on disk afterwards.
//
// A track whose destination file already exists is a success without
// any network traffic for the audio body; its artist cover is still
// considered, so re-runs backfill covers that a previous run missed.
//
// Permits are only held around actual downloads. No error escapes:
// every failure is logged with the track context and turned into a
// false return.
func (m *Manager) process(ctx context.Context, track model.TrackRecord, slot int) bool {
	dest := track.Path(m.settings.OutputDir)

	if ioutils.FileExists(dest) {
		m.downloadCover(ctx, track)
		return true
	}

	if err := m.limiter.Acquire(ctx); err != nil {
		m.logFailure("download not started", track, err)
		return false
	}
	defer m.limiter.Release()

	if err := m.fetchTrackBody(ctx, track, dest, slot); err != nil {
		m.logFailure("track download failed", track, err)
		return false
	}

	m.downloadCover(ctx, track)

	if m.settings.ModifyTags {
		if err := m.writeTags(track, dest); err != nil {
			// The audio body is already intact on disk.
			m.logFailure("tag write failed", track, err)
		}
	}

	return true
}

// fetchTrackBody streams the audio body to a temporary file next to
// dest and renames it into place once the body is complete. A failed
// transfer leaves no file behind at dest.
func (m *Manager) fetchTrackBody(ctx context.Context, track model.TrackRecord, dest string, slot int) error {
	resp, err := m.fetcher.Open(ctx, track.AudioURL, m.trackTimeout())
	if err != nil {
		return err
	}
	defer resp.Close()

	if err := ioutils.EnsureDir(track.Dir(m.settings.OutputDir)); err != nil {
		return err
	}

	partial := dest + ".part"
	f, err := os.Create(partial)
	if err != nil {
		return err
	}

	m.sink.TrackStarted(slot, track.String(), resp.ContentLength)
	defer m.sink.TrackFinished(slot)

	pw := &http.ProgressWriter{
		Writer: f,
		Total:  resp.ContentLength,
		OnUpdate: func(written, total int64) {
			m.sink.TrackProgress(slot, written, total)
		},
	}

	buf := make([]byte, chunkSize)
	_, copyErr := io.CopyBuffer(pw, resp.Body, buf)
	closeErr := f.Close()

	if copyErr != nil || closeErr != nil {
		removePartial(partial)
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	}

	if err := os.Rename(partial, dest); err != nil {
		removePartial(partial)
		return err
	}

	return nil
}

// downloadCover fetches the artist cover at most once per artist and
// run. Cover failures never affect the track result.
func (m *Manager) downloadCover(ctx context.Context, track model.TrackRecord) {
	if !track.HasCover() || !m.covers.Claim(track.Artist) {
		return
	}

	dest := track.CoverPath(m.settings.OutputDir)
	if ioutils.FileExists(dest) {
		return
	}

	data, err := m.fetcher.Get(ctx, track.CoverURL, m.coverTimeout())
	if err != nil {
		m.logFailure("cover download failed", track, err)
		return
	}

	if m.settings.ResizeCovers {
		if resized, err := m.images.ResizeImage(data, m.settings.CoverMaxSize, m.settings.CoverMaxSize); err != nil {
			m.log.Error("cover resize failed", "artist", track.Artist, "error", err)
		} else {
			data = resized
		}
	} else if m.settings.ConvertCoversToJPG {
		if converted, err := m.images.ConvertToJPEG(data); err != nil {
			m.log.Error("cover conversion failed", "artist", track.Artist, "error", err)
		} else {
			data = converted
		}
	}

	if err := ioutils.EnsureDir(track.Dir(m.settings.OutputDir)); err != nil {
		m.logFailure("cover save failed", track, err)
		return
	}
	if err := ioutils.WriteFile(dest, data); err != nil {
		m.logFailure("cover save failed", track, err)
	}
}

// writeTags writes ID3 metadata into the finished file at dest.
func (m *Manager) writeTags(track model.TrackRecord, dest string) error {
	info := audio.TagInfo{
		Artist:    track.Artist,
		Title:     track.Title,
		SourceURL: track.AudioURL,
	}

	if m.settings.EmbedCoverInTags {
		if cover, err := os.ReadFile(track.CoverPath(m.settings.OutputDir)); err == nil {
			info.Cover = cover
		}
	}

	return m.tagger.WriteTags(dest, info)
}

// logFailure records a worker failure with the track context.
// Cancellation is demoted to debug so a user-initiated stop does not
// fill the failure log.
func (m *Manager) logFailure(msg string, track model.TrackRecord, err error) {
	level := m.log.Error
	if errors.Is(err, context.Canceled) {
		level = m.log.Debug
	}
	level(msg, "track", track.String(), "url", track.AudioURL, "error", err)
}
