package audio

import (
	"path/filepath"
	"strings"
)

// PlaylistCreator generates plain M3U playlists for artist folders.
//
// The catalog carries no track durations, so only the simple M3U form
// (one file name per line) is produced; extended EXTINF lines need
// duration information that is never available here.
//
// Example:
//
//	creator := NewPlaylistCreator()
//	content := creator.CreateM3U([]string{
//	    "/music/Artist/Artist - One.mp3",
//	    "/music/Artist/Artist - Two.mp3",
//	})
//	// "Artist - One.mp3\nArtist - Two.mp3\n"
type PlaylistCreator struct{}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator() *PlaylistCreator {
	return &PlaylistCreator{}
}

// CreateM3U generates plain M3U content for the given track paths.
//
// Paths are reduced to their base names, assuming the playlist file
// sits in the same directory as the tracks.
func (p *PlaylistCreator) CreateM3U(trackPaths []string) string {
	var sb strings.Builder
	for _, path := range trackPaths {
		sb.WriteString(filepath.Base(path))
		sb.WriteByte('\n')
	}
	return sb.String()
}
