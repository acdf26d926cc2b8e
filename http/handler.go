package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/iofs"
	"github.com/gorilla/mux"
)

// Header values attached to every response. POST is advertised even though
// no POST handler exists; browsers see the same policy the server always had.
const (
	AllowOrigin  = "*"
	AllowMethods = "GET, POST, OPTIONS"
	AllowHeaders = "*"
)

// CORS sets the permissive CORS headers before next writes anything, so
// they are present on file responses, listings, redirects and errors alike.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", AllowOrigin)
		h.Set("Access-Control-Allow-Methods", AllowMethods)
		h.Set("Access-Control-Allow-Headers", AllowHeaders)
		next.ServeHTTP(w, r)
	})
}

// NewHandler serves root read-only: GET and HEAD go to the static file
// handler, OPTIONS gets an empty 200 preflight answer, anything else 501.
func NewHandler(root billy.Filesystem) http.Handler {
	files := http.FileServer(http.FS(iofs.New(root)))

	r := mux.NewRouter()
	// Traversal is resolved by the file handler and the bound root, not by
	// redirecting to a cleaned path.
	r.SkipClean(true)
	r.Methods(http.MethodOptions).HandlerFunc(preflight)
	r.PathPrefix("/").Methods(http.MethodGet, http.MethodHead).Handler(files)
	r.MethodNotAllowedHandler = http.HandlerFunc(notImplemented)

	return CORS(r)
}

func preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func notImplemented(w http.ResponseWriter, r *http.Request) {
	http.Error(w, fmt.Sprintf("Unsupported method ('%s')", r.Method), http.StatusNotImplemented)
}
