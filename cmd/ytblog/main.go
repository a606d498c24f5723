package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"yt-blog/internal/app"
	"yt-blog/internal/pipeline"
	"yt-blog/internal/refine"
	"yt-blog/internal/store"
)

var errMissingURL = errors.New("missing video url")

// videoRunner is satisfied by *pipeline.Pipeline.
type videoRunner interface {
	Run(ctx context.Context, url, initialDraft string) (pipeline.Outcome, error)
}

type runnerFactory func(deps app.Deps, opts refine.Options) (videoRunner, error)

type cliFlags struct {
	draftFile     string
	maxIterations int
	threshold     int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(app.Build, buildRunner).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func buildRunner(deps app.Deps, opts refine.Options) (videoRunner, error) {
	loop, err := app.NewLoop(deps, opts)
	if err != nil {
		return nil, err
	}
	p, out, err := app.NewPipeline(deps, loop)
	if err != nil {
		return nil, err
	}
	attrs := []any{"path", out.Path()}
	if deps.Config.OutputHTML {
		attrs = append(attrs, "html", out.HTMLPath())
	}
	deps.Log.Info("final draft destination", attrs...)
	return p, nil
}

func newRootCmd(build func() (app.Deps, error), newRunner runnerFactory) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "ytblog <video-url>",
		Short: "Download a video, extract its audio and refine a blog draft with an LLM",
		Long: `ytblog downloads a YouTube video, extracts its audio track with ffmpeg and
then refines a starting draft: the LLM rates the draft out of 100, suggests
improvements and rewrites it until the rating reaches the threshold or the
iteration cap is hit. The final draft is written to OUTPUT_DIR/OUTPUT_FILE.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				slog.Default().Error("usage: ytblog <video-url>", "err", errMissingURL)
				return errMissingURL
			}
			deps, err := build()
			if err != nil {
				slog.Default().Error("failed to build dependencies", "err", err)
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), deps, newRunner, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.draftFile, "draft-file", "", "File holding the starting draft (defaults to INITIAL_DRAFT)")
	cmd.Flags().IntVar(&flags.maxIterations, "max-iterations", 0, "Improve/rewrite cycles before giving up (defaults to MAX_ITERATIONS)")
	cmd.Flags().IntVar(&flags.threshold, "threshold", 0, "Rating out of 100 that ends refinement (defaults to RATING_THRESHOLD)")
	return cmd
}

func run(ctx context.Context, w io.Writer, deps app.Deps, newRunner runnerFactory, flags cliFlags, url string) error {
	runID := uuid.NewString()
	log := deps.Log.With("run_id", runID)

	draft, err := resolveDraft(flags.draftFile, deps.Config.InitialDraft)
	if err != nil {
		log.Error("failed to read starting draft", "err", err)
		return err
	}

	lock, err := store.LockRun(deps.Config.OutputDir, deps.Config.VideoFile)
	if err != nil {
		log.Error("failed to lock run",
			"dir", deps.Config.OutputDir,
			"video", deps.Config.VideoFile,
			"err", err,
		)
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("failed to release output lock", "err", err)
		}
	}()

	deps.Log = log
	runner, err := newRunner(deps, refine.Options{
		Threshold:     flags.threshold,
		MaxIterations: flags.maxIterations,
	})
	if err != nil {
		log.Error("failed to build pipeline", "err", err)
		return err
	}

	log.Info("processing video", "url", url)
	out, err := runner.Run(ctx, url, draft)
	fmt.Fprintln(w, renderSummary(runID, out, err))
	if err != nil {
		log.Error("pipeline finished with error",
			"err", err,
			"state", string(out.Result.State),
			"persisted", out.Persisted,
		)
		return err
	}
	log.Info("pipeline complete",
		"state", string(out.Result.State),
		"rating", out.Result.Rating,
		"iterations", out.Result.Iterations,
		"audio", out.AudioPath,
	)
	return nil
}

// resolveDraft reads the starting draft from path, or uses fallback when no
// path is given. A blank draft is rejected.
func resolveDraft(path, fallback string) (string, error) {
	draft := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read draft file: %w", err)
		}
		draft = string(b)
	}
	if strings.TrimSpace(draft) == "" {
		return "", fmt.Errorf("starting draft: %w", store.ErrEmptyDraft)
	}
	return draft, nil
}

func renderSummary(runID string, out pipeline.Outcome, runErr error) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})

	rating := "none"
	if out.Result.Rated {
		rating = fmt.Sprintf("%d/100", out.Result.Rating)
	}
	state := string(out.Result.State)
	if state == "" {
		state = "not started"
	}
	tw.AppendRows([]table.Row{
		{"Run", runID},
		{"State", state},
		{"Rating", rating},
		{"Evaluations", out.Result.Evaluations},
		{"Iterations", out.Result.Iterations},
		{"Saved", out.Persisted},
	})
	if runErr != nil {
		tw.AppendRow(table.Row{"Error", runErr.Error()})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, WidthMax: 80},
	})
	return tw.Render()
}
