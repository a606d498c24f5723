package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"yt-blog/internal/config"
	"yt-blog/internal/llm"
	"yt-blog/internal/logger"
	"yt-blog/internal/media"
	"yt-blog/internal/pipeline"
	"yt-blog/internal/prompt"
	"yt-blog/internal/refine"
	"yt-blog/internal/store"
)

// Deps bundles common runtime dependencies for the CLI and the gateway.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	LLM       llm.Client
	Templates prompt.Loader
}

// Build loads env, config, and shared components. A missing .env file is not
// an error; the process environment is used as is.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return Deps{}, err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return Deps{
		Config:    cfg,
		Log:       log,
		LLM:       llmClient,
		Templates: prompt.NewFileLoader(),
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(llm.Settings{
			APIKey:           cfg.OpenAIKey,
			BaseURL:          cfg.OpenAIBaseURL,
			Model:            cfg.LLMModel,
			Temperature:      cfg.Temperature,
			FrequencyPenalty: cfg.FrequencyPenalty,
			PresencePenalty:  cfg.PresencePenalty,
			Timeout:          cfg.LLMTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", client.Model())
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

// NewLoop builds a refinement loop on top of deps. Zero fields in opts fall
// back to the configured threshold and iteration cap.
func NewLoop(deps Deps, opts refine.Options) (*refine.Loop, error) {
	steps, err := refine.NewSteps(deps.LLM, deps.Templates, refine.TemplatePaths{
		Evaluation:  deps.Config.EvaluationTemplate,
		Improvement: deps.Config.ImprovementTemplate,
	})
	if err != nil {
		return nil, err
	}
	if opts.Threshold == 0 {
		opts.Threshold = deps.Config.RatingThreshold
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = deps.Config.MaxIterations
	}
	return refine.NewLoop(deps.Log, steps, steps, steps, opts)
}

// NewPipeline builds the full video-to-draft pipeline.
func NewPipeline(deps Deps, refiner pipeline.Refiner) (*pipeline.Pipeline, *store.FileStore, error) {
	out, err := store.NewFileStore(deps.Config.OutputDir, deps.Config.OutputFile, store.WithHTML(deps.Config.OutputHTML))
	if err != nil {
		return nil, nil, err
	}
	p, err := pipeline.New(
		deps.Log,
		media.NewYouTubeDownloader(deps.Log),
		media.NewFFmpegExtractor(deps.Config.FFmpegBinary),
		refiner,
		out,
		pipeline.Config{VideoPath: deps.Config.VideoFile},
	)
	if err != nil {
		return nil, nil, err
	}
	return p, out, nil
}
