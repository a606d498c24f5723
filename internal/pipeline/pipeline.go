// Package pipeline wires media acquisition, draft refinement and persistence
// into a single run for one video.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"yt-blog/internal/media"
	"yt-blog/internal/refine"
	"yt-blog/internal/store"
)

// Refiner runs the refinement loop on a starting draft.
type Refiner interface {
	Run(ctx context.Context, draft string) (refine.Result, error)
}

// Config holds the fixed locations used by a run.
type Config struct {
	VideoPath string
}

// Pipeline processes one video at a time.
type Pipeline struct {
	log        *slog.Logger
	downloader media.Downloader
	extractor  media.Extractor
	refiner    Refiner
	store      store.Store
	cfg        Config
}

// Outcome describes what a run produced.
type Outcome struct {
	VideoPath string
	AudioPath string
	Result    refine.Result
	Persisted bool
}

func New(log *slog.Logger, d media.Downloader, e media.Extractor, r Refiner, s store.Store, cfg Config) (*Pipeline, error) {
	if d == nil || e == nil || r == nil || s == nil {
		return nil, fmt.Errorf("downloader, extractor, refiner and store are required")
	}
	if cfg.VideoPath == "" {
		return nil, fmt.Errorf("video path required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{log: log, downloader: d, extractor: e, refiner: r, store: s, cfg: cfg}, nil
}

// Run downloads url, extracts its audio, refines initialDraft and saves the
// result. A refinement failure still saves the last draft held once at least
// one evaluation succeeded; the refinement error is returned either way. An
// empty initialDraft is rejected before anything is downloaded.
func (p *Pipeline) Run(ctx context.Context, url, initialDraft string) (Outcome, error) {
	var out Outcome

	if strings.TrimSpace(initialDraft) == "" {
		return out, fmt.Errorf("initial draft: %w", store.ErrEmptyDraft)
	}

	if err := p.store.Prepare(ctx); err != nil {
		return out, fmt.Errorf("prepare output: %w", err)
	}

	videoPath, err := p.downloader.Download(ctx, url, p.cfg.VideoPath)
	if err != nil {
		return out, fmt.Errorf("failed to download video: %w", err)
	}
	out.VideoPath = videoPath

	audioPath, err := p.extractor.ExtractAudio(ctx, videoPath)
	if err != nil {
		return out, fmt.Errorf("failed to extract audio: %w", err)
	}
	out.AudioPath = audioPath
	p.log.Info("audio extracted", "audio", audioPath)

	res, refineErr := p.refiner.Run(ctx, initialDraft)
	out.Result = res
	p.log.Info("refinement finished",
		"state", string(res.State),
		"iterations", res.Iterations,
		"evaluations", res.Evaluations,
	)

	if !persistable(res) {
		p.log.Warn("no evaluated draft to save", "state", string(res.State))
		return out, refineErr
	}
	if err := p.store.SaveDraft(ctx, res.Draft); err != nil {
		return out, errors.Join(refineErr, fmt.Errorf("failed to save draft: %w", err))
	}
	out.Persisted = true
	p.log.Info("final draft saved", "state", string(res.State))
	return out, refineErr
}

func persistable(res refine.Result) bool {
	return res.State.Terminal() && res.Draft != "" && res.Evaluations > 0
}
