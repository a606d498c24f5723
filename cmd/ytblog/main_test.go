package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yt-blog/internal/app"
	"yt-blog/internal/config"
	"yt-blog/internal/pipeline"
	"yt-blog/internal/refine"
	"yt-blog/internal/store"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, url, initialDraft string) (pipeline.Outcome, error) {
	args := m.Called(ctx, url, initialDraft)
	return args.Get(0).(pipeline.Outcome), args.Error(1)
}

func testDeps(dir string) app.Deps {
	return app.Deps{
		Config: config.Config{
			InitialDraft: "Your initial draft content here.",
			OutputDir:    filepath.Join(dir, "data"),
			VideoFile:    filepath.Join(dir, "temp_video.mp4"),
		},
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func execute(t *testing.T, r *mockRunner, gotOpts *refine.Options, args ...string) error {
	t.Helper()
	_, err := executeWithOutput(t, r, gotOpts, t.TempDir(), args...)
	return err
}

func executeWithOutput(t *testing.T, r *mockRunner, gotOpts *refine.Options, dir string, args ...string) (string, error) {
	t.Helper()
	build := func() (app.Deps, error) { return testDeps(dir), nil }
	factory := func(_ app.Deps, opts refine.Options) (videoRunner, error) {
		if gotOpts != nil {
			*gotOpts = opts
		}
		return r, nil
	}
	var out bytes.Buffer
	cmd := newRootCmd(build, factory)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMissingURLFails(t *testing.T) {
	r := new(mockRunner)
	err := execute(t, r, nil)
	assert.ErrorIs(t, err, errMissingURL)
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestTooManyArgsFails(t *testing.T) {
	r := new(mockRunner)
	assert.Error(t, execute(t, r, nil, "a", "b"))
}

func TestRunUsesInitialDraftAndFlags(t *testing.T) {
	r := new(mockRunner)
	r.On("Run", mock.Anything, "https://youtu.be/x", "Your initial draft content here.").
		Return(pipeline.Outcome{Result: refine.Result{State: refine.StateDone}, Persisted: true}, nil).Once()

	var opts refine.Options
	err := execute(t, r, &opts, "https://youtu.be/x", "--max-iterations", "3", "--threshold", "85")
	require.NoError(t, err)
	assert.Equal(t, 3, opts.MaxIterations)
	assert.Equal(t, 85, opts.Threshold)
	r.AssertExpectations(t)
}

func TestRunReadsDraftFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(path, []byte("Hello world"), 0o644))

	r := new(mockRunner)
	r.On("Run", mock.Anything, "https://youtu.be/x", "Hello world").
		Return(pipeline.Outcome{Result: refine.Result{State: refine.StateDone}}, nil).Once()

	require.NoError(t, execute(t, r, nil, "https://youtu.be/x", "--draft-file", path))
	r.AssertExpectations(t)
}

func TestMissingDraftFileFails(t *testing.T) {
	r := new(mockRunner)
	err := execute(t, r, nil, "https://youtu.be/x", "--draft-file", filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipelineErrorPropagates(t *testing.T) {
	r := new(mockRunner)
	r.On("Run", mock.Anything, "https://youtu.be/x", mock.Anything).
		Return(pipeline.Outcome{Result: refine.Result{State: refine.StateExhausted}, Persisted: true}, refine.ErrExhausted).Once()

	err := execute(t, r, nil, "https://youtu.be/x")
	assert.ErrorIs(t, err, refine.ErrExhausted)
}

func TestBuildFailurePropagates(t *testing.T) {
	cmd := newRootCmd(
		func() (app.Deps, error) { return app.Deps{}, errors.New("no key") },
		func(app.Deps, refine.Options) (videoRunner, error) { return nil, nil },
	)
	cmd.SetArgs([]string{"https://youtu.be/x"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())
}

func TestSummaryTablePrinted(t *testing.T) {
	r := new(mockRunner)
	r.On("Run", mock.Anything, "https://youtu.be/x", mock.Anything).
		Return(pipeline.Outcome{
			Result:    refine.Result{State: refine.StateDone, Rating: 93, Rated: true, Evaluations: 2, Iterations: 1},
			Persisted: true,
		}, nil).Once()

	out, err := executeWithOutput(t, r, nil, t.TempDir(), "https://youtu.be/x")
	require.NoError(t, err)
	assert.Contains(t, out, "93/100")
	assert.Contains(t, out, string(refine.StateDone))
}

func TestLockedRunFails(t *testing.T) {
	dir := t.TempDir()
	held, err := store.LockRun(filepath.Join(dir, "data"), filepath.Join(dir, "temp_video.mp4"))
	require.NoError(t, err)
	defer held.Unlock()

	r := new(mockRunner)
	_, err = executeWithOutput(t, r, nil, dir, "https://youtu.be/x")
	assert.ErrorIs(t, err, store.ErrLocked)
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestMissingURLCheckedBeforeBuild(t *testing.T) {
	built := false
	cmd := newRootCmd(
		func() (app.Deps, error) {
			built = true
			return app.Deps{}, errors.New("OPENAI_API_KEY is required")
		},
		func(app.Deps, refine.Options) (videoRunner, error) { return nil, nil },
	)
	cmd.SetArgs(nil)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.ErrorIs(t, cmd.Execute(), errMissingURL)
	assert.False(t, built, "dependencies must not be built without a url")
}

func TestEmptyDraftFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	r := new(mockRunner)
	err := execute(t, r, nil, "https://youtu.be/x", "--draft-file", path)
	assert.ErrorIs(t, err, store.ErrEmptyDraft)
	r.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveDraft(t *testing.T) {
	draft, err := resolveDraft("", "fallback draft")
	require.NoError(t, err)
	assert.Equal(t, "fallback draft", draft)

	_, err = resolveDraft("", "")
	assert.ErrorIs(t, err, store.ErrEmptyDraft)
}
