package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadscout-go-pipeline/internal/config"
	"leadscout-go-pipeline/internal/crawler"
	"leadscout-go-pipeline/internal/signals"
	"leadscout-go-pipeline/internal/snapshot"
	"leadscout-go-pipeline/pkg/logger"
)

type urlReq struct {
	URL string `json:"url"`
}

func main() {
	l := logger.New()
	cfg := config.Default()
	if path := os.Getenv("LEADSCOUT_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			l.Errorf("config: %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	client := crawler.NewClient(cfg.FetchTimeout(), cfg.DialTimeout(), cfg.MaxBodyBytes)
	collector := signals.NewCollector(client, cfg.MaxExtraPages, cfg.CheckRobots, l)
	builder := snapshot.NewBuilder(client, cfg.MaxExtraPages, cfg.MaxSnapshotChars, l)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /signals  { "url": "https://..." }
	mux.HandleFunc("/signals", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeURLReq(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		rec, err := collector.Collect(ctx, req.URL)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	// POST /snapshot  { "url": "https://..." }
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeURLReq(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		snap := builder.Scrape(ctx, req.URL)
		code := http.StatusOK
		if !snap.OK {
			code = http.StatusBadGateway
		}
		writeJSON(w, code, snap)
	})

	addr := ":8080"
	if v := os.Getenv("LEADSCOUT_ADDR"); v != "" {
		addr = v
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      logRequest(l, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Infof("bye")
}

func decodeURLReq(w http.ResponseWriter, r *http.Request) (urlReq, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return urlReq{}, false
	}
	var req urlReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return urlReq{}, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
