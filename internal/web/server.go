package web

import (
	"context"
	"embed"
	"net/http"
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/logger"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

//go:embed templates/index.html
var templates embed.FS

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type Config struct {
	Listen         string
	AllowedOrigins []string
}

type Server struct {
	srv *http.Server
}

func NewServer(cfg Config, engine Querier) *Server {
	h := NewHandler(engine)

	router := mux.NewRouter()
	router.HandleFunc("/api/get_readings", h.handleReadings).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	router.PathPrefix("/").HandlerFunc(handleIndex).Methods(http.MethodGet)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Content-Type"},
	})

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Listen,
			Handler:           c.Handler(router),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errFactory := errors.New()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.srv.ListenAndServe()
	}()

	logger.Info().Str("listen", s.srv.Addr).Msg("Query server listening")

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errFactory.Wrap(ErrServerFailed, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return errFactory.Wrap(errors.ErrShutdownFailed, err)
		}
		return nil
	}
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page, err := templates.ReadFile("templates/index.html")
	if err != nil {
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		logger.Error().Err(err).Msg("Failed to write dashboard page")
	}
}
