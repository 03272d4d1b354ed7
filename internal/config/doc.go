// Package config provides configuration management for taratdl.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ./tarat_tracks
//	// 6 concurrent track downloads
//	// ID3 tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Defaults are used if the file doesn't exist
//	}
//
// # Configuration Options
//
// Settings includes options for:
//   - Site base URL and catalog listing path
//   - Output directory, track cache, and error log locations
//   - Concurrency and HTTP connection limits
//   - Per-request timeouts and discovery delays
//   - Cover art conversion and resizing
//   - ID3 tag modification
//   - Playlist generation
package config
