package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/andymabb/Petra/internal/logger"
	"github.com/andymabb/Petra/internal/page"
	"github.com/andymabb/Petra/internal/seasonal"
)

// SiteHandler serves the built site. HTML pages have their seasonal
// content resolved before they are sent; other files are served as-is.
type SiteHandler struct {
	fsys     fs.FS
	files    http.Handler
	resolver *seasonal.Resolver
	logger   *slog.Logger
}

// NewSiteHandler serves files from fsys.
func NewSiteHandler(fsys fs.FS, resolver *seasonal.Resolver, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{
		fsys:     fsys,
		files:    http.FileServer(http.FS(fsys)),
		resolver: resolver,
		logger:   logger,
	}
}

func (s *SiteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}

	if info, err := fs.Stat(s.fsys, name); err == nil && info.IsDir() {
		name = path.Join(name, "index.html")
	}

	if !isHTML(name) {
		s.files.ServeHTTP(w, r)
		return
	}
	s.serveHTML(w, r, name)
}

func (s *SiteHandler) serveHTML(w http.ResponseWriter, r *http.Request, name string) {
	log := logger.FromContext(r.Context(), s.logger)

	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		log.Error("open page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	doc, err := page.Parse(f)
	if err != nil {
		log.Error("parse page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	res := doc.Resolve(s.resolver, seasonal.ParamsFromQuery(r.URL.Query()))
	log.Debug("resolved page",
		slog.String("page", name),
		slog.Int("day", res.Day),
		slog.Int("matched", res.Matched),
		slog.Int("regions", res.Total),
	)

	body, err := doc.Bytes()
	if err != nil {
		log.Error("render page", slog.String("page", name), slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Output varies with the date.
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func isHTML(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return true
	}
	return false
}
