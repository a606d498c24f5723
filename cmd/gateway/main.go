package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"yt-blog/internal/app"
	"yt-blog/internal/httputil"
	"yt-blog/internal/refine"
)

type refineRequest struct {
	Draft         string `json:"draft" validate:"required"`
	MaxIterations int    `json:"max_iterations" validate:"min=0,max=50"`
	Threshold     int    `json:"threshold" validate:"min=0,max=100"`
}

type refineResponse struct {
	RunID       string `json:"run_id"`
	State       string `json:"state"`
	Draft       string `json:"draft"`
	Rating      int    `json:"rating"`
	Rated       bool   `json:"rated"`
	Evaluations int    `json:"evaluations"`
	Iterations  int    `json:"iterations"`
	Error       string `json:"error,omitempty"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("gateway stopped")
}

func newRouter(deps app.Deps) chi.Router {
	r := httputil.NewRouter(deps.Log, 0)
	r.Post("/api/drafts/refine", refineHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	return r
}

func refineHandler(deps app.Deps) http.HandlerFunc {
	maxSize := deps.Config.MaxDraftSize

	return func(w http.ResponseWriter, r *http.Request) {
		if maxSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxSize)
		}
		var req refineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httputil.Fail(deps.Log, w, fmt.Sprintf("draft too large (max %d bytes)", maxSize), err, http.StatusRequestEntityTooLarge)
				return
			}
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		runID := uuid.NewString()
		runDeps := deps
		runDeps.Log = deps.Log.With("run_id", runID)

		loop, err := app.NewLoop(runDeps, refine.Options{
			Threshold:     req.Threshold,
			MaxIterations: req.MaxIterations,
		})
		if err != nil {
			httputil.Fail(runDeps.Log, w, "failed to build refinement loop", err, http.StatusInternalServerError)
			return
		}

		res, err := loop.Run(r.Context(), req.Draft)
		resp := refineResponse{
			RunID:       runID,
			State:       string(res.State),
			Draft:       res.Draft,
			Rating:      res.Rating,
			Rated:       res.Rated,
			Evaluations: res.Evaluations,
			Iterations:  res.Iterations,
		}
		if err != nil {
			resp.Error = err.Error()
		}
		httputil.WriteJSON(w, statusFor(res.State), resp)
	}
}

func statusFor(state refine.State) int {
	switch state {
	case refine.StateDone:
		return http.StatusOK
	case refine.StateExhausted:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
