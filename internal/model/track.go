package model

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// TrackRecord describes one downloadable track discovered in the catalog.
//
// A record is an immutable value: workers read it but never modify it.
// Duplicate records are tolerated by the pipeline because the
// destination-file existence check makes processing idempotent.
type TrackRecord struct {
	// Artist is the artist name as shown on the artist page.
	Artist string

	// Title is the track title.
	Title string

	// AudioURL is the absolute URL of the MP3 file.
	AudioURL string

	// CoverURL is the absolute URL of the artist's cover image.
	// Empty string means no cover is available.
	CoverURL string
}

// HasCover returns true if the record carries a cover image URL.
func (t TrackRecord) HasCover() bool {
	return t.CoverURL != ""
}

// String returns the "Artist - Title" label used in logs and progress
// displays.
func (t TrackRecord) String() string {
	return t.Artist + " - " + t.Title
}

// Dir returns the artist folder for this record under outputDir.
func (t TrackRecord) Dir(outputDir string) string {
	return filepath.Join(outputDir, SanitizeName(t.Artist))
}

// Path returns the destination file path for the audio body:
//
//	{outputDir}/{artist}/{artist} - {title}.mp3
//
// Both components are sanitized, so the result is a pure function of
// (Artist, Title).
func (t TrackRecord) Path(outputDir string) string {
	artist := SanitizeName(t.Artist)
	title := SanitizeName(t.Title)
	return filepath.Join(outputDir, artist, fmt.Sprintf("%s - %s.mp3", artist, title))
}

// CoverPath returns the destination file path for the artist cover:
//
//	{outputDir}/{artist}/{artist}_cover.jpg
//
// The extension is always .jpg; downloaded covers are converted before
// they are written.
func (t TrackRecord) CoverPath(outputDir string) string {
	artist := SanitizeName(t.Artist)
	return filepath.Join(outputDir, artist, artist+"_cover.jpg")
}

// PlaylistPath returns the destination file path for the artist
// playlist:
//
//	{outputDir}/{artist}/{artist}.m3u
func (t TrackRecord) PlaylistPath(outputDir string) string {
	artist := SanitizeName(t.Artist)
	return filepath.Join(outputDir, artist, artist+".m3u")
}

// MarshalJSON encodes the record as a 4-element array:
// [artist, title, audioURL, coverURL-or-null].
func (t TrackRecord) MarshalJSON() ([]byte, error) {
	var cover any
	if t.CoverURL != "" {
		cover = t.CoverURL
	}
	return json.Marshal([]any{t.Artist, t.Title, t.AudioURL, cover})
}

// UnmarshalJSON decodes the 4-element array form. A null or missing
// cover element becomes an empty CoverURL.
func (t *TrackRecord) UnmarshalJSON(data []byte) error {
	var fields []*string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 4 {
		return fmt.Errorf("track record: expected 4 elements, got %d", len(fields))
	}
	for i, f := range fields[:3] {
		if f == nil {
			return fmt.Errorf("track record: element %d must not be null", i)
		}
	}
	t.Artist = *fields[0]
	t.Title = *fields[1]
	t.AudioURL = *fields[2]
	if fields[3] != nil {
		t.CoverURL = *fields[3]
	} else {
		t.CoverURL = ""
	}
	return nil
}

// SanitizeName removes characters that are invalid in file and folder
// names and normalizes whitespace.
//
// The following transformations are applied:
//   - Reserved characters (< > : " / \ | ? *) are removed
//   - Leading/trailing whitespace is trimmed
//   - Runs of whitespace collapse to a single space
//   - " - " and " – " separators become "-"
//
// The function is idempotent: SanitizeName(SanitizeName(x)) == SanitizeName(x).
//
// Example:
//
//	SanitizeName("AC/DC")           // "ACDC"
//	SanitizeName("Intro  -  Outro") // "Intro-Outro"
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		default:
			b.WriteRune(r)
		}
	}
	name = strings.Join(strings.Fields(b.String()), " ")
	name = strings.ReplaceAll(name, " - ", "-")
	name = strings.ReplaceAll(name, " – ", "-")
	return name
}
