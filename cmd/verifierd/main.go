package main

// #region imports
import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dquist/master-verifier/internal/api"
	"github.com/dquist/master-verifier/internal/assess"
	"github.com/dquist/master-verifier/internal/chunkstore"
	"github.com/dquist/master-verifier/internal/detect"
	"github.com/dquist/master-verifier/internal/ingest"
	"github.com/dquist/master-verifier/internal/profile"
	"github.com/dquist/master-verifier/internal/ranking"
)

// #endregion

// #region main
func main() {
	addr := envOr("VERIFIER_ADDR", ":8080")
	dbPath := envOr("VERIFIER_DB", "verifier.db")
	profilePath := os.Getenv("VERIFIER_PROFILES")
	workers := envInt("VERIFIER_WORKERS", 4)

	store, err := chunkstore.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	registry := profile.NewRegistry()
	if profilePath != "" {
		if err := registry.Reload(profilePath); err != nil {
			log.Fatalf("failed to load profiles from %s: %v", profilePath, err)
		}
	}

	assessor := assess.New(assess.DefaultConfig())
	detector := detect.NewDetector(assessor, buildExternal(), buildCache())

	router := api.NewRouter(&api.Container{
		Assessor:    assessor,
		Detector:    detector,
		Ranker:      ranking.NewEngine(),
		Profiles:    registry,
		Store:       store,
		Pipeline:    ingest.NewPipeline(assessor, store, workers),
		ProfilePath: profilePath,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("[SERVER] listening on %s (db=%s)", addr, dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("[SERVER] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[SERVER] shutdown error: %v", err)
	}
}

// #endregion main

// #region wiring

// buildExternal wires the remote verifier when an endpoint is configured.
func buildExternal() detect.ExternalVerifier {
	endpoint := os.Getenv("VERIFIER_EXTERNAL_ENDPOINT")
	if endpoint == "" {
		return nil
	}
	timeout := time.Duration(envInt("VERIFIER_EXTERNAL_TIMEOUT_SECONDS", 30)) * time.Second
	log.Printf("[SERVER] external verifier: %s", endpoint)
	return detect.NewRemoteVerifier(endpoint, os.Getenv("VERIFIER_API_KEY"), timeout)
}

// buildCache prefers redis when configured, otherwise an in-process cache.
func buildCache() detect.Cache {
	redisAddr := os.Getenv("VERIFIER_REDIS_ADDR")
	if redisAddr == "" {
		return detect.NewMemoryCache()
	}
	ttl := time.Duration(envInt("VERIFIER_CACHE_TTL_SECONDS", 3600)) * time.Second
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("VERIFIER_REDIS_PASSWORD"),
	})
	log.Printf("[SERVER] verification cache: redis at %s", redisAddr)
	return detect.NewRedisCache(client, ttl)
}

// #endregion wiring

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[SERVER] invalid %s=%q, using %d", key, v, fallback)
	}
	return fallback
}

// #endregion helpers
