// Package service implements the HTTP analysis service: endpoints for
// checking statements against a loaded catalog, plus the usual status,
// version, and metrics plumbing.
package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/squintdb/squint/cache"
	"github.com/squintdb/squint/schema"
	"go.uber.org/zap"
)

type Config struct {
	Auth    AuthConfig
	Cache   cache.Config
	Logger  *zap.Logger
	Model   schema.Model
	Version string
}

type Core struct {
	conf      Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	router    *mux.Router
	cache     cache.Cache
	analyses  *prometheus.CounterVec
	durations prometheus.Histogram
}

func NewCore(conf Config) (*Core, error) {
	if conf.Logger == nil {
		conf.Logger = zap.NewNop()
	}
	if conf.Version == "" {
		conf.Version = "unknown"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())

	analysisCache, err := cache.New(conf.Cache, registry)
	if err != nil {
		return nil, err
	}

	factory := promauto.With(registry)
	c := &Core{
		conf:     conf,
		logger:   conf.Logger.Named("core"),
		registry: registry,
		cache:    analysisCache,
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyses_total",
				Help: "Number of statements analyzed, by outcome.",
			},
			[]string{"status"},
		),
		durations: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name: "analysis_duration_seconds",
				Help: "Time spent parsing and checking one statement.",
			},
		),
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"version": conf.Version})
	})
	debug := router.PathPrefix("/debug/pprof").Subrouter()
	debug.HandleFunc("/cmdline", pprof.Cmdline)
	debug.HandleFunc("/profile", pprof.Profile)
	debug.HandleFunc("/symbol", pprof.Symbol)
	debug.HandleFunc("/trace", pprof.Trace)
	debug.PathPrefix("/").HandlerFunc(pprof.Index)

	api := router.PathPrefix("/query").Subrouter()
	api.Use(requestIDMiddleware())
	api.Use(accessLogMiddleware(conf.Logger))
	api.Use(panicCatchMiddleware(conf.Logger))
	if conf.Auth.Enabled {
		api.Use(authMiddleware(conf.Auth))
	}
	api.HandleFunc("/analyze", c.handleAnalyze).Methods("POST")
	api.HandleFunc("/ast", c.handleAST).Methods("POST")

	router.HandleFunc("/schema", c.handleSchema).Methods("GET")

	c.router = router
	c.logger.Info("Started", zap.String("version", conf.Version))
	return c, nil
}

// Handler returns the service's HTTP handler with CORS applied.
func (c *Core) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(c.router)
}

// Registry exposes the metrics registry, mostly for tests.
func (c *Core) Registry() *prometheus.Registry {
	return c.registry
}
