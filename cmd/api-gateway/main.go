package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/shared/config"
	"github.com/radieske/live-bet-sim-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

// Fachada única pro front: repassa pro engine, pro feed e pro store,
// resolvendo CORS num lugar só
func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	engineURL := os.Getenv("ENGINE_URL")
	if engineURL == "" {
		engineURL = "http://localhost:8085"
	}
	feedURL := os.Getenv("FEED_URL")
	if feedURL == "" {
		feedURL = "http://localhost:8086"
	}
	storeURL := os.Getenv("STORE_GATEWAY_URL")
	if storeURL == "" {
		storeURL = cfg.StoreURL
	}
	engine := rp(engineURL)
	feed := rp(feedURL)
	store := rp(storeURL)

	mux := http.NewServeMux()

	// engine (ex.: /api/engine/v1/games -> match-engine)
	mux.Handle("/api/engine/", http.StripPrefix("/api/engine", engine))

	// feed (ex.: /api/feed/v1/live e /api/feed/ws -> live-feed-api)
	// o ReverseProxy repassa o upgrade de WebSocket
	mux.Handle("/api/feed/", http.StripPrefix("/api/feed", feed))

	// store (ex.: /api/store/games -> store-service)
	mux.Handle("/api/store/", http.StripPrefix("/api/store", store))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
