package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kevinaaaquil/books-api/config"
	"github.com/kevinaaaquil/books-api/middleware"
	"go.uber.org/zap"
)

type Deps struct {
	Books      BookStore
	Users      UserStore
	Health     Pinger
	JWTSecret  string
	Pagination config.Pagination
	BcryptCost int
	// CORSOrigins empty means any origin.
	CORSOrigins []string
	Log         *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	authHandler := &AuthHandler{
		DB:         d.Users,
		JWTSecret:  d.JWTSecret,
		Log:        d.Log.Named("auth"),
		BcryptCost: d.BcryptCost,
	}
	booksHandler := &BooksHandler{
		DB:         d.Books,
		Pagination: d.Pagination,
		Log:        d.Log.Named("books"),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Log.Named("http")))
	r.Use(middleware.Recoverer(d.Log))
	r.Use(middleware.CORS(d.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "welcome to books."})
	})
	r.Get("/health", healthHandler(d.Health))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.JWTSecret, d.Log.Named("auth")))
			r.Get("/books", booksHandler.List)
			r.Post("/books", booksHandler.Create)
			r.Get("/books/{id}", booksHandler.Get)
			r.Put("/books/{id}", booksHandler.Update)
			r.Patch("/books/{id}", booksHandler.Patch)
			r.Delete("/books/{id}", booksHandler.Delete)
		})
	})
	return r
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
