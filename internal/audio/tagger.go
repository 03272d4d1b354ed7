package audio

import (
	"github.com/bogem/id3v2"
)

// TagInfo holds the metadata written into one MP3 file.
type TagInfo struct {
	// Artist is written to TPE1 and, as the album title, to TALB.
	Artist string

	// Title is written to TIT2.
	Title string

	// SourceURL is written to a COMM frame so a file on disk can
	// always be traced back to where it came from.
	SourceURL string

	// Cover is optional JPEG image data embedded as the front cover.
	// Nil skips artwork.
	Cover []byte
}

// Tagger writes ID3 tags to MP3 files.
//
// The catalog has no album concept, so the artist name doubles as the
// album title; players then group an artist's tracks together.
//
// Example:
//
//	tagger := NewTagger()
//	if err := tagger.WriteTags(track.Path(outputDir), info); err != nil {
//	    log.Error("tagging failed", "track", track, "error", err)
//	}
//
// Tag-write failures are deliberately non-fatal for callers: the audio
// body is already saved correctly by the time tags are written.
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTags writes ID3 tags to the MP3 file at path.
//
// Existing tags are parsed and updated; a file without tags gets a
// fresh tag. The file must exist.
func (t *Tagger) WriteTags(path string, info TagInfo) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetArtist(info.Artist)
	tag.SetTitle(info.Title)
	tag.SetAlbum(info.Artist)

	tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    "rus",
		Description: "Source",
		Text:        info.SourceURL,
	})

	if info.Cover != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     info.Cover,
		})
	}

	return tag.Save()
}
