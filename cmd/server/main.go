package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manzanit0/geofarm/cmd/server/api"
	"github.com/manzanit0/geofarm/pkg/env"
	"github.com/manzanit0/geofarm/pkg/geocode"
	"github.com/manzanit0/geofarm/pkg/geocodefarm"
	"github.com/manzanit0/geofarm/pkg/logger"
	"github.com/manzanit0/geofarm/pkg/lookups"
	"github.com/manzanit0/geofarm/pkg/metrics"
	"github.com/manzanit0/geofarm/pkg/middleware"
	"github.com/manzanit0/geofarm/pkg/whttp"
)

const ServiceName = "geofarm"

func main() {
	cfg, err := env.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	log := logger.New(ServiceName, cfg.LogLevel)
	slog.SetDefault(log)

	repo, closeDB, err := newLookupsRepository(cfg.DatabaseURL, log)
	if err != nil {
		panic(err)
	}
	defer closeDB()

	geocoder, err := newGeocodeFarmClient(cfg, log)
	if err != nil {
		panic(err)
	}

	places, err := newPlacesClient(cfg, log)
	if err != nil {
		panic(err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log, false))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ctrl := api.NewGeocodeController(geocoder, places, repo, m, log)
	ctrl.Register(r.Group("/v1"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: r}
	go func() {
		log.Info(fmt.Sprintf("serving HTTP on :%s", cfg.Port))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server shutdown abruptly", "error", err.Error())
		} else {
			log.Info("server shutdown gracefully")
		}

		stop()
	}()

	// Listen for OS interrupt
	<-ctx.Done()
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err.Error())
	}

	log.Info("server exited")
}

func newGeocodeFarmClient(cfg *env.Config, log *slog.Logger) (*geocodefarm.Client, error) {
	if cfg.GeocodeFarm.APIKey == "" {
		log.Warn("GEOCODEFARM_API_KEY is not set, using the keyless tier")
	}

	httpClient, err := whttp.NewLoggingClient(cfg.GeocodeFarm.Timeout, cfg.ProxyURL, log)
	if err != nil {
		return nil, err
	}

	transport := whttp.NewJSONCaller(httpClient, cfg.UserAgent)
	return geocodefarm.NewClient(cfg.GeocodeFarm, transport, log)
}

func newPlacesClient(cfg *env.Config, log *slog.Logger) (geocode.Client, error) {
	if cfg.PlaceProvider == env.ProviderOpenstreetmap {
		return geocode.NewOpenstreetmapClient(), nil
	}

	endpoints, err := geocodefarm.NewEndpoints(cfg.GeocodeFarm.Scheme, cfg.GeocodeFarm.Host)
	if err != nil {
		return nil, err
	}

	format, err := geocodefarm.NewQueryFormat(cfg.GeocodeFarm.QueryFormat)
	if err != nil {
		return nil, err
	}

	return geocode.NewGeocodeFarmClient(endpoints, cfg.GeocodeFarm.APIKey, format, log), nil
}

func newLookupsRepository(databaseURL string, log *slog.Logger) (lookups.Repository, func(), error) {
	if databaseURL == "" {
		log.Info("DATABASE_URL is not set, lookup history disabled")
		return lookups.Discard{}, func() {}, nil
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open db conn: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Info("connected to the database successfully")

	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error("error closing db connection", "error", err.Error())
		}
	}

	return lookups.NewPgRepository(db), closeDB, nil
}
