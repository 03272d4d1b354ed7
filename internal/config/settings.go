package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Site settings
	BaseURL       string `json:"base_url"`
	MusicPagePath string `json:"music_page_path"`

	// Output locations
	OutputDir       string `json:"output_dir"`
	TracksCacheFile string `json:"tracks_cache_file"`
	ErrorLogFile    string `json:"error_log_file"`

	// Concurrency settings. MaxConcurrentDownloads bounds logical
	// in-flight track downloads; the connection caps bound physical
	// HTTP connections and must not be tighter than the logical limit.
	MaxConcurrentDownloads int `json:"max_concurrent_downloads"`
	MaxConnsPerHost        int `json:"max_conns_per_host"`
	MaxTotalConns          int `json:"max_total_conns"`
	DiscoveryConcurrency   int `json:"discovery_concurrency"`

	// Timeouts, in seconds
	HTMLTimeout  float64 `json:"html_timeout"`
	TrackTimeout float64 `json:"track_timeout"`
	CoverTimeout float64 `json:"cover_timeout"`

	// Jittered delays between discovery requests, in seconds
	PageDelayMin   float64 `json:"page_delay_min"`
	PageDelayMax   float64 `json:"page_delay_max"`
	ArtistDelayMin float64 `json:"artist_delay_min"`
	ArtistDelayMax float64 `json:"artist_delay_max"`

	// Cover art settings
	ConvertCoversToJPG bool `json:"convert_covers_to_jpg"`
	ResizeCovers       bool `json:"resize_covers"`
	CoverMaxSize       int  `json:"cover_max_size"`

	// Tag settings
	ModifyTags       bool `json:"modify_tags"`
	EmbedCoverInTags bool `json:"embed_cover_in_tags"`

	// Playlist settings
	CreatePlaylists bool `json:"create_playlists"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:       "https://tarat.ru",
		MusicPagePath: "/music",

		OutputDir:       "tarat_tracks",
		TracksCacheFile: "tracks.json",
		ErrorLogFile:    "errors.log",

		MaxConcurrentDownloads: 6,
		MaxConnsPerHost:        8,
		MaxTotalConns:          20,
		DiscoveryConcurrency:   4,

		HTMLTimeout:  15,
		TrackTimeout: 45,
		CoverTimeout: 30,

		PageDelayMin:   1.0,
		PageDelayMax:   2.0,
		ArtistDelayMin: 0.8,
		ArtistDelayMax: 1.5,

		ConvertCoversToJPG: true,
		ResizeCovers:       false,
		CoverMaxSize:       1000,

		ModifyTags:       true,
		EmbedCoverInTags: false,

		CreatePlaylists: false,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so the tool
// works without any configuration.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
