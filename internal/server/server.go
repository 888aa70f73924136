package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tablekit/tablekit/pkg/cache"
	"github.com/tablekit/tablekit/pkg/observability"
)

// Server is the reshape HTTP service. It owns the dataset store, the
// reshape result cache, and the HTTP listener.
type Server struct {
	cfg    Config
	store  Store
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
	http   *http.Server
}

// New assembles the service.
// If store is nil, a MemoryStore is used.
// If c is nil, a NullCache is used (caching disabled).
func New(cfg Config, store Store, c cache.Cache, logger *log.Logger) *Server {
	if store == nil {
		store = NewMemoryStore()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	keyer := cache.NewDefaultKeyer()
	if cfg.Cache.Scope != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Scope)
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		cache:  c,
		keyer:  keyer,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}
	return s
}

// NewStore builds the dataset store named by cfg.
func NewStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Backend {
	case StoreMongo:
		return NewMongoStore(ctx, cfg.URI, cfg.Database)
	default:
		return NewMemoryStore(), nil
	}
}

// NewCache builds the reshape result cache named by cfg.
func NewCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case CacheFile:
		return cache.NewFileCache(cfg.Dir)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cfg.URL)
	default:
		return cache.NewNullCache(), nil
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/", s.handleCreateDataset)
			r.Get("/", s.handleListDatasets)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDataset)
				r.Delete("/", s.handleDeleteDataset)
				r.Post("/reshape", s.handleReshape)
			})
		})
	})
	return r
}

// Handler returns the routed HTTP handler, for tests and for embedding the
// service under another mux.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start listens on the configured address and serves until [Server.Shutdown]
// is called.
func (s *Server) Start() error {
	s.logger.Info("listening",
		"addr", s.http.Addr,
		"store", s.cfg.Store.Backend,
		"cache", s.cfg.Cache.Backend)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the store and the cache.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if cerr := s.store.Close(ctx); err == nil {
		err = cerr
	}
	if cerr := s.cache.Close(); err == nil {
		err = cerr
	}
	return err
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, rec.status, duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration)
	})
}
