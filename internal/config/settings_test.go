package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "https://tarat.ru", s.BaseURL)
	assert.Equal(t, 6, s.MaxConcurrentDownloads)
	assert.Equal(t, 8, s.MaxConnsPerHost)
	assert.Equal(t, 20, s.MaxTotalConns)

	// The logical download limit must fit inside the physical
	// connection caps, or permits could never make progress.
	assert.LessOrEqual(t, s.MaxConcurrentDownloads, s.MaxConnsPerHost)
	assert.LessOrEqual(t, s.MaxConnsPerHost, s.MaxTotalConns)

	assert.Greater(t, s.TrackTimeout, s.HTMLTimeout,
		"audio downloads need a longer timeout than discovery requests")
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"output_dir":"/tmp/music","max_concurrent_downloads":3}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/music", s.OutputDir)
	assert.Equal(t, 3, s.MaxConcurrentDownloads)
	// Untouched fields keep their defaults.
	assert.Equal(t, "https://tarat.ru", s.BaseURL)
	assert.Equal(t, 8, s.MaxConnsPerHost)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	s := DefaultSettings()
	s.OutputDir = "/somewhere/else"
	s.CreatePlaylists = true
	require.NoError(t, s.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
