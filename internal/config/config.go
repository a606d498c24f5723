package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the CLI and the gateway.
type Config struct {
	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json", "text" or "auto"

	// LLM
	LLMProvider      string        `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"` // any OpenAI-compatible endpoint
	LLMModel         string        `env:"LLM_MODEL" envDefault:"gpt-4-0613"`
	Temperature      float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	FrequencyPenalty float64       `env:"LLM_FREQUENCY_PENALTY" envDefault:"0.2"`
	PresencePenalty  float64       `env:"LLM_PRESENCE_PENALTY" envDefault:"0"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"` // 0 disables the per-call timeout

	// Refinement
	RatingThreshold     int    `env:"RATING_THRESHOLD" envDefault:"90"`
	MaxIterations       int    `env:"MAX_ITERATIONS" envDefault:"10"`
	EvaluationTemplate  string `env:"EVALUATION_TEMPLATE" envDefault:"prompt1.txt"`
	ImprovementTemplate string `env:"IMPROVEMENT_TEMPLATE" envDefault:"improvement_prompt.txt"`
	InitialDraft        string `env:"INITIAL_DRAFT" envDefault:"Your initial draft content here."`

	// Media & output
	VideoFile    string `env:"VIDEO_FILE" envDefault:"temp_video.mp4"`
	FFmpegBinary string `env:"FFMPEG_BINARY" envDefault:"ffmpeg"`
	OutputDir    string `env:"OUTPUT_DIR" envDefault:"data"`
	OutputFile   string `env:"OUTPUT_FILE" envDefault:"final_output.txt"`
	OutputHTML   bool   `env:"OUTPUT_HTML" envDefault:"false"` // also render the draft as HTML

	// Gateway
	Port         int   `env:"PORT" envDefault:"8080"`
	MaxDraftSize int64 `env:"MAX_DRAFT_SIZE" envDefault:"1048576"` // 1MB in bytes
}

// Load reads configuration from environment variables with defaults. A value
// that does not parse is an error rather than a silent zero.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}
