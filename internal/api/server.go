package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured.
// Mutating routes require the admin key when one is set.
func NewServer(port string, h *Handler, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(h, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter registers the API routes on a new ServeMux.
func NewRouter(h *Handler, adminAPIKey string) http.Handler {
	protect := func(fn http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return fn
		}
		return requireAuth(adminAPIKey, fn)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/investments", h.ListInvestments)
	mux.HandleFunc("GET /api/v1/models", h.ListModels)
	mux.HandleFunc("POST /api/v1/models/allocations", h.ModelAllocations)
	mux.Handle("POST /api/v1/catalogue/refresh", protect(h.RefreshCatalogue))

	mux.HandleFunc("POST /api/v1/totals", h.Totals)
	mux.HandleFunc("POST /api/v1/compare", h.Compare)
	mux.HandleFunc("POST /api/v1/export/{format}", h.Export)

	if h.shared != nil {
		mux.HandleFunc("GET /api/v1/shared", h.ListShared)
		mux.HandleFunc("GET /api/v1/shared/{id}", h.GetShared)
		mux.Handle("POST /api/v1/shared", protect(h.SharePortfolio))
	}

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
