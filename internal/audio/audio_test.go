package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

func TestPlaylistCreator_M3U(t *testing.T) {
	creator := NewPlaylistCreator()

	content := creator.CreateM3U([]string{
		"/music/Artist/Artist - One.mp3",
		"/music/Artist/Artist - Two.mp3",
	})

	want := "Artist - One.mp3\nArtist - Two.mp3\n"
	if content != want {
		t.Errorf("CreateM3U = %q, want %q", content, want)
	}
}

func TestPlaylistCreator_Empty(t *testing.T) {
	creator := NewPlaylistCreator()
	if content := creator.CreateM3U(nil); content != "" {
		t.Errorf("CreateM3U(nil) = %q, want empty", content)
	}
}

func TestTagger_WriteTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	// A tagless file: the tagger must create a fresh tag.
	if err := os.WriteFile(path, []byte("not really mpeg frames"), 0644); err != nil {
		t.Fatal(err)
	}

	tagger := NewTagger()
	err := tagger.WriteTags(path, TagInfo{
		Artist:    "Test Artist",
		Title:     "Test Title",
		SourceURL: "https://tarat.ru/files/test.mp3",
	})
	if err != nil {
		t.Fatalf("WriteTags failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer tag.Close()

	if got := tag.Artist(); got != "Test Artist" {
		t.Errorf("Artist = %q, want %q", got, "Test Artist")
	}
	if got := tag.Title(); got != "Test Title" {
		t.Errorf("Title = %q, want %q", got, "Test Title")
	}
	if got := tag.Album(); got != "Test Artist" {
		t.Errorf("Album = %q, want artist name %q", got, "Test Artist")
	}

	comments := tag.GetFrames(tag.CommonID("Comments"))
	if len(comments) != 1 {
		t.Fatalf("comment frames = %d, want 1", len(comments))
	}
	comment, ok := comments[0].(id3v2.CommentFrame)
	if !ok {
		t.Fatalf("frame is %T, want CommentFrame", comments[0])
	}
	if comment.Text != "https://tarat.ru/files/test.mp3" {
		t.Errorf("comment = %q, want source URL", comment.Text)
	}
}

func TestTagger_MissingFile(t *testing.T) {
	tagger := NewTagger()
	err := tagger.WriteTags(filepath.Join(t.TempDir(), "missing.mp3"), TagInfo{Artist: "A", Title: "T"})
	if err == nil {
		t.Error("expected error for missing file")
	}
}
