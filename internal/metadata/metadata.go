// Package metadata reads display information from audio file tags.
package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// Info is the tag information the player displays.
type Info struct {
	Title  string
	Artist string
}

// Read extracts tag information from an audio file.
// Missing or unreadable tags fall back to the file name without extension.
func Read(filePath string) (Info, error) {
	if filePath == "" {
		return Info{}, domain.ErrInvalidFilePath
	}

	info := Info{Title: baseName(filePath)}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	m, err := tag.ReadFrom(file)
	if err != nil || m == nil {
		// Untagged files keep the file name
		return info, nil
	}

	if title := strings.TrimSpace(m.Title()); title != "" {
		info.Title = title
	}
	if artist := strings.TrimSpace(m.Artist()); artist != "" {
		info.Artist = artist
	}
	return info, nil
}

// Fill completes a track that has no title from its file's tags.
// A configured title always wins.
func Fill(track domain.Track) domain.Track {
	if track.Title != "" && track.Artist != "" {
		return track
	}

	info, _ := Read(track.Source)
	if track.Title == "" {
		track.Title = info.Title
	}
	if track.Artist == "" {
		track.Artist = info.Artist
	}
	return track
}

func baseName(filePath string) string {
	name := filepath.Base(filePath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
