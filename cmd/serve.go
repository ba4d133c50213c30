package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geoscene/internal/entity"
	"github.com/sells-group/geoscene/internal/export"
	"github.com/sells-group/geoscene/internal/fetcher"
	"github.com/sells-group/geoscene/internal/loader"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve loaded entity collections over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		styles, err := resolveStyles("")
		if err != nil {
			return err
		}
		client := fetcher.NewClient(fetcher.Options{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		})

		// One store behind one loader; loads are serialized by the mutex since
		// overlapping loads race on the shared store.
		var mu sync.Mutex
		store := entity.NewStore()
		l := loader.New(store, nil, styles)
		l.SetFetcher(client.FetchJSON)

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		r.Post("/load", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				URL string `json:"url"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
			if body.URL == "" {
				http.Error(w, `{"error":"url is required"}`, http.StatusBadRequest)
				return
			}

			mu.Lock()
			err := l.LoadURL(req.Context(), body.URL)
			count := store.Len()
			mu.Unlock()
			if err != nil {
				zap.L().Error("load failed", zap.String("url", body.URL), zap.Error(err))
				http.Error(w, `{"error":"load failed"}`, http.StatusBadGateway)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"source":   body.URL,
				"entities": count,
			})
		})

		r.Get("/entities", func(w http.ResponseWriter, req *http.Request) {
			mu.Lock()
			data, err := export.GeoJSON(store.All())
			mu.Unlock()
			if err != nil {
				http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/geo+json")
			_, _ = w.Write(data)
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("server listening", zap.Int("port", cfg.Server.Port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			zap.L().Info("shutting down")
			return srv.Close()
		case err := <-errCh:
			return err
		}
	},
}
