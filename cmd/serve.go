package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ownership-cli/internal/enrich"
	"github.com/sells-group/ownership-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API for ownership resolution",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv()
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/resolve", func(w http.ResponseWriter, req *http.Request) {
			requestID := uuid.NewString()
			log := zap.L().With(zap.String("request_id", requestID))

			var body enrich.Request
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}

			result, err := e.orchestrator.Resolve(req.Context(), body)
			if err != nil {
				log.Error("resolve failed", zap.String("parcel", body.Parcel.Key()), zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "resolution failed"})
				return
			}

			log.Info("resolve complete",
				zap.String("parcel", body.Parcel.Key()),
				zap.Int("candidates", len(result.Candidates)),
			)
			writeJSON(w, http.StatusOK, result)
		})

		r.Post("/v1/portfolio", func(w http.ResponseWriter, req *http.Request) {
			requestID := uuid.NewString()
			log := zap.L().With(zap.String("request_id", requestID))

			var body struct {
				Candidates []model.OwnerCandidate `json:"candidates"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}

			result, err := e.discoverer.Discover(req.Context(), body.Candidates)
			if err != nil {
				log.Error("portfolio discovery failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "discovery failed"})
				return
			}

			log.Info("portfolio discovery complete",
				zap.Int("properties", len(result.Properties)),
			)
			writeJSON(w, http.StatusOK, result)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
