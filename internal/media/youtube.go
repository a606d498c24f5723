package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var ErrNoStream = errors.New("no progressive stream with audio")

// videoSource is the subset of *youtube.Client the downloader needs.
type videoSource interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// YouTubeDownloader saves the highest-resolution progressive stream of a video.
type YouTubeDownloader struct {
	log    *slog.Logger
	source videoSource
}

func NewYouTubeDownloader(log *slog.Logger) *YouTubeDownloader {
	return &YouTubeDownloader{log: log, source: &youtube.Client{}}
}

func (d *YouTubeDownloader) Download(ctx context.Context, url, dest string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("download: url required")
	}
	video, err := d.source.GetVideoContext(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download: resolve video: %w", err)
	}
	format, err := selectFormat(video.Formats)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", video.ID, err)
	}
	d.log.Info("downloading video",
		"video_id", video.ID,
		"title", video.Title,
		"quality", format.QualityLabel,
		"mime", format.MimeType,
	)

	stream, size, err := d.source.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("download %s: open stream: %w", video.ID, err)
	}
	defer stream.Close()

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("download: ensure dir: %w", err)
		}
	}
	if err := writeStream(dest, stream); err != nil {
		return "", fmt.Errorf("download %s: %w", video.ID, err)
	}
	d.log.Info("video downloaded", "path", dest, "bytes", size)
	return dest, nil
}

// writeStream copies r into path and removes the partial file on failure.
func writeStream(path string, r io.Reader) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	_, err = io.Copy(out, r)
	return err
}

// selectFormat picks the tallest format that carries both video and audio,
// preferring MP4 containers.
func selectFormat(formats youtube.FormatList) (*youtube.Format, error) {
	var best *youtube.Format
	bestMP4 := false
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || f.Height == 0 {
			continue
		}
		mp4 := strings.HasPrefix(f.MimeType, "video/mp4")
		switch {
		case best == nil:
		case mp4 && !bestMP4:
		case mp4 == bestMP4 && f.Height > best.Height:
		default:
			continue
		}
		best, bestMP4 = f, mp4
	}
	if best == nil {
		return nil, ErrNoStream
	}
	return best, nil
}
