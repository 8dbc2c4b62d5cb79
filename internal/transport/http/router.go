package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig selects optional routes and CORS origins.
type RouterConfig struct {
	AllowedOrigins []string
	// ClientUnlock mounts the unlock and new-test endpoints. Payment is never
	// verified, so enabling it trusts the client entirely.
	ClientUnlock bool
}

// NewRouter wires the quiz view (websocket) and the result view behind the
// identity middleware.
func NewRouter(identity *Identity, ws *WSHandler, results *ResultHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/pay", results.Pay)

	r.Group(func(pr chi.Router) {
		pr.Use(identity.Middleware)
		pr.Get("/ws", ws.ServeWS)
		pr.Get("/api/result", results.Get)
		if cfg.ClientUnlock {
			pr.Post("/api/result/unlock", results.Unlock)
			pr.Post("/api/result/reset", results.Reset)
		}
	})
	return r
}
