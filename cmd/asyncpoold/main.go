// Command asyncpoold is a minimal server wrapping the asyncpool engine:
// POST /tasks submits a detached unit of work, GET /metrics exposes the
// pool's live queue depth and task counters for Prometheus. None of
// this is part of the engine's contract (spec.md explicitly keeps
// wire protocols out of scope for the core) — it's the ambient
// front door a deployable binary around the engine would need.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/go-foundations/asyncpool"
)

func main() {
	cfg := loadConfig()
	zerolog.SetGlobalLevel(cfg.logLevel())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	if err := asyncpool.Init(cfg.PoolSize); err != nil {
		log.Fatal().Err(err).Msg("failed to start pool")
	}
	defer asyncpool.Shutdown()

	registry := prometheus.NewRegistry()
	registry.MustRegister(asyncpool.NewCollector(asyncpool.CurrentPool()))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/tasks", submitTaskHandler)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Int("workers", cfg.PoolSize).Msg("asyncpoold listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

type taskRequest struct {
	Payload string `json:"payload"`
}

type taskAccepted struct {
	TaskID string `json:"task_id"`
}

// submitTaskHandler submits the request body as a detached task. The
// response carries a correlation id stamped before submission — the
// engine itself never sees or needs this id, per spec.md's opaque
// payload model.
func submitTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	taskID := uuid.NewString()
	ok := asyncpool.SubmitDetached(func(p string) string {
		log.Debug().Str("task_id", taskID).Msg("task completed")
		return p
	}, req.Payload)
	if !ok {
		http.Error(w, "pool unavailable", http.StatusServiceUnavailable)
		return
	}

	log.Info().Str("task_id", taskID).Msg("task accepted")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(taskAccepted{TaskID: taskID})
}

type config struct {
	PoolSize   int
	ListenAddr string
	LogLevel   string
}

func (c config) logLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// loadConfig reads ASYNCPOOL_* environment variables (and an optional
// asyncpoold.yaml in the working directory) via Viper, falling back to
// sensible defaults — the same role DefaultConfig played in the
// teacher, moved out of the engine itself and into the ambient binary.
func loadConfig() config {
	v := viper.New()
	v.SetEnvPrefix("asyncpool")
	v.AutomaticEnv()
	v.SetConfigName("asyncpoold")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("pool_size", 4)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log_level", "info")

	_ = v.ReadInConfig() // absence of a config file is not an error

	return config{
		PoolSize:   v.GetInt("pool_size"),
		ListenAddr: v.GetString("listen_addr"),
		LogLevel:   v.GetString("log_level"),
	}
}
