package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	ioutils "github.com/dkudrin/taratdl/internal/io"
	"github.com/dkudrin/taratdl/internal/model"
)

// LoadCache reads the track list cached at path.
//
// A missing file is not an error: it returns (nil, nil) so callers
// fall through to a fresh discovery. A present but unreadable file is
// an error; the caller decides whether to re-discover or abort.
func LoadCache(path string) ([]model.TrackRecord, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tracks []model.TrackRecord
	if err := json.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("track cache %s: %w", path, err)
	}
	return tracks, nil
}

// SaveCache writes the track list to path, replacing any previous
// cache. The format is a JSON array of [artist, title, audioURL,
// coverURL-or-null] tuples.
func SaveCache(path string, tracks []model.TrackRecord) error {
	data, err := json.Marshal(tracks)
	if err != nil {
		return err
	}
	return ioutils.WriteFile(path, data)
}
