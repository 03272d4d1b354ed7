// Package audio provides audio file manipulation services: ID3 tag
// writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to downloaded MP3 files:
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(path, audio.TagInfo{
//	    Artist:    rec.Artist,
//	    Title:     rec.Title,
//	    SourceURL: rec.AudioURL,
//	})
//
// The frames written are artist (TPE1), title (TIT2), album (TALB,
// set to the artist name since the catalog has no album concept), and
// a comment (COMM) carrying the original source URL for provenance.
// Cover art (APIC) is embedded when bytes are provided.
//
// # Playlist Generation
//
// Generate a plain M3U playlist for an artist folder:
//
//	creator := audio.NewPlaylistCreator()
//	content := creator.CreateM3U([]string{"Artist - Song.mp3"})
//	os.WriteFile(filepath.Join(dir, "Artist.m3u"), []byte(content), 0644)
package audio
