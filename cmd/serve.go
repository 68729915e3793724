package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clash-creation/qualify-cli/internal/session"
	"github.com/clash-creation/qualify-cli/internal/store"
	"github.com/clash-creation/qualify-cli/internal/wizard"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the qualification session API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		mgr, err := initManager(st)
		if err != nil {
			return err
		}
		defer mgr.Shutdown()

		go purgeLoop(ctx, st, cfg.Wizard.ResumeWindow())

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(mgr, cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// purgeLoop drops resume records past the restore window once an hour.
func purgeLoop(ctx context.Context, st store.Store, window time.Duration) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := st.DeleteStaleSessions(ctx, window)
			if err != nil {
				zap.L().Warn("purge stale sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("purged stale sessions", zap.Int("count", n))
			}
		}
	}
}

// newRouter builds the session API.
func newRouter(mgr *session.Manager, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", handleOpen(mgr))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleGet(mgr))
			r.Post("/answers", handleAnswer(mgr))
			r.Post("/advance", handleAdvance(mgr))
			r.Post("/retreat", handleRetreat(mgr))
			r.Post("/extras", handleExtra(mgr))
			r.Post("/close", handleClose(mgr))
			r.Get("/recommendation", handleRecommendation(mgr))
		})
	})

	return r
}

type openRequest struct {
	SessionID   string `json:"session_id,omitempty"`
	Referrer    string `json:"referrer,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
}

func handleOpen(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		v, err := mgr.Open(r.Context(), req.SessionID, requestAttribution(r, req))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

func handleGet(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleAnswer(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Field string `json:"field"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Field == "" {
			writeError(w, http.StatusBadRequest, "field is required")
			return
		}

		v, err := mgr.Answer(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleAdvance(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := mgr.Advance(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleRetreat(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := mgr.Retreat(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleExtra(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		v, err := mgr.ToggleExtra(r.Context(), chi.URLParam(r, "id"), req.Name)
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleClose(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := mgr.CloseSession(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
	}
}

func handleRecommendation(mgr *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := mgr.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeSessionError(w, err)
			return
		}
		if v.Recommendation == nil {
			writeError(w, http.StatusConflict, "recommendation not ready")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"recommendation":  v.Recommendation,
			"score":           v.Score,
			"booking_url":     v.BookingURL,
			"selected_extras": v.Extras,
		})
	}
}

// writeSessionError translates manager errors onto HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	var verr *wizard.ValidationError
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"stage":  verr.Stage,
			"fields": verr.Fields,
		})
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
