// Package model defines the core data structures used throughout taratdl.
//
// # TrackRecord
//
// TrackRecord is the unit of work produced by catalog discovery and
// consumed by the download pipeline:
//
//	rec := model.TrackRecord{
//	    Artist:   "Some Artist",
//	    Title:    "Some Song",
//	    AudioURL: "https://tarat.ru/files/song.mp3",
//	    CoverURL: "https://tarat.ru/img/cover.jpg",
//	}
//	fmt.Println(rec.Path("/music")) // /music/Some Artist/Some Artist - Some Song.mp3
//
// Records serialize to compact 4-element JSON arrays so the on-disk
// track cache stays interchangeable with earlier tooling:
//
//	["Some Artist","Some Song","https://.../song.mp3","https://.../cover.jpg"]
//
// # File naming
//
// Destination paths are a pure function of the sanitized artist and
// title. SanitizeName strips characters that are invalid in file names
// and is idempotent, so paths computed from already-sanitized input do
// not drift.
package model
