// Package media fetches a video and pulls its audio track out into a
// standalone file.
package media

import (
	"context"
	"path/filepath"
	"strings"
)

// Downloader fetches the video behind url into dest and returns the path written.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (string, error)
}

// Extractor writes the audio track of a video file and returns the audio path.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}

// AudioExtension is the container used for extracted audio.
const AudioExtension = ".mp3"

// AudioPath derives the audio filename by swapping the video's extension.
func AudioPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + AudioExtension
}
