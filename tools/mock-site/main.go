// Package main implements a mock notice board server for local development.
// It renders a notice page from a JSON fixture and lets the notice list be
// mutated at runtime, so the tracker can be exercised end to end without
// hitting real sites.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

type notice struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// board holds the mutable notice list served by the page handler.
type board struct {
	mu       sync.Mutex
	initial  []notice
	notices  []notice
	failNext int
}

func newBoard(initial []notice) *board {
	b := &board{initial: initial}
	b.notices = append([]notice(nil), initial...)
	return b
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>Recruitment Notice Board</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about.html">About</a> <a href="/contact.html">Contact</a></nav>
<div class="notices">
<h2>Latest Notices</h2>
<ul>
{{range .}}<li><a href="{{.URL}}">{{.Title}}</a></li>
{{end}}</ul>
</div>
<footer><a href="/privacy.html">Privacy Policy</a></footer>
</body>
</html>
`))

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-site/testdata/notices.json", "path to notices fixture")
	adminToken := flag.String("token", "", "token required by mutating endpoints (empty disables the check)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	notices, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "notices", len(notices))

	b := newBoard(notices)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", pageHandler(logger, b))
	mux.HandleFunc("POST /add", addHandler(logger, b, *adminToken))
	mux.HandleFunc("POST /reset", resetHandler(logger, b, *adminToken))
	mux.HandleFunc("POST /fail", failHandler(logger, b, *adminToken))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock notice board", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) ([]notice, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var notices []notice
	if err := json.Unmarshal(data, &notices); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return notices, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// tokenAllowed mirrors the tracker's force-token contract: an empty
// configured token leaves the endpoint open.
func tokenAllowed(configured, provided string) bool {
	return configured == "" || provided == configured
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func unauthorized(logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	logger.Warn("rejected request with bad token", "path", r.URL.Path)
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "unauthorized"})
}

func pageHandler(logger *slog.Logger, b *board) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		if b.failNext > 0 {
			b.failNext--
			remaining := b.failNext
			b.mu.Unlock()
			logger.Info("serving injected failure", "remaining", remaining)
			http.Error(w, "injected failure", http.StatusInternalServerError)
			return
		}
		notices := append([]notice(nil), b.notices...)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, notices); err != nil {
			logger.Error("rendering page", "error", err)
		}
	}
}

func addHandler(logger *slog.Logger, b *board, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !tokenAllowed(token, r.URL.Query().Get("token")) {
			unauthorized(logger, w, r)
			return
		}

		title := r.URL.Query().Get("title")
		url := r.URL.Query().Get("url")
		if title == "" || url == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and url are required"})
			return
		}

		b.mu.Lock()
		b.notices = append(b.notices, notice{Title: title, URL: url})
		count := len(b.notices)
		b.mu.Unlock()

		logger.Info("notice added", "title", title, "notices", count)
		writeJSON(w, http.StatusOK, map[string]any{"status": "added", "notices": count})
	}
}

func resetHandler(logger *slog.Logger, b *board, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !tokenAllowed(token, r.URL.Query().Get("token")) {
			unauthorized(logger, w, r)
			return
		}

		b.mu.Lock()
		b.notices = append([]notice(nil), b.initial...)
		b.failNext = 0
		count := len(b.notices)
		b.mu.Unlock()

		logger.Info("board reset", "notices", count)
		writeJSON(w, http.StatusOK, map[string]any{"status": "reset", "notices": count})
	}
}

// failHandler arms failure injection: the next n page requests answer 500,
// which exercises the tracker's bounded retry path.
func failHandler(logger *slog.Logger, b *board, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !tokenAllowed(token, r.URL.Query().Get("token")) {
			unauthorized(logger, w, r)
			return
		}

		n := 1
		if raw := r.URL.Query().Get("n"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "n must be a non-negative integer"})
				return
			}
			n = v
		}

		b.mu.Lock()
		b.failNext = n
		b.mu.Unlock()

		logger.Info("failure injection armed", "requests", n)
		writeJSON(w, http.StatusOK, map[string]any{"status": "failing", "requests": n})
	}
}
