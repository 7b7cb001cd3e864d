package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/manzanit0/locations/cmd/server/api"
	"github.com/manzanit0/locations/migrations"
	"github.com/manzanit0/locations/pkg/env"
	"github.com/manzanit0/locations/pkg/geocode"
	"github.com/manzanit0/locations/pkg/history"
	"github.com/manzanit0/locations/pkg/location"
	"github.com/manzanit0/locations/pkg/logger"
	"github.com/manzanit0/locations/pkg/middleware"
	"github.com/manzanit0/locations/pkg/whttp"
)

const ServiceName = "locations"

func init() {
	env.Load()
	logger.InitGlobalSlog(ServiceName, env.Debug())
}

func main() {
	cfg, err := env.LocationIQConfig()
	if err != nil {
		panic(err)
	}

	searches, closeDB, err := newHistory(context.Background())
	if err != nil {
		panic(err)
	}
	defer closeDB()

	locations := location.NewLocationIQClient(whttp.NewLoggingClient(), cfg)
	geocoder := geocode.NewOpenstreetmapClient(env.NominatimURL())

	r := gin.New()
	r.Use(middleware.TraceID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger(env.Debug()))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api.NewLocationsController(locations, geocoder, searches).Register(r)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := env.Port()
	srv := &http.Server{Addr: fmt.Sprintf(":%s", port), Handler: r}
	go func() {
		slog.Info(fmt.Sprintf("serving HTTP on :%s", port))

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server shutdown abruptly", "error", err.Error())
		} else {
			slog.Info("server shutdown gracefully")
		}

		stop()
	}()

	// Listen for OS interrupt
	<-ctx.Done()
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err.Error())
	}

	slog.Info("server exited")
}

// newHistory connects to the database when DATABASE_URL is set and applies
// the migrations under migrations/. Without it the returned repository is nil
// and searches aren't recorded.
func newHistory(ctx context.Context) (history.Repository, func(), error) {
	dsn := env.DatabaseURL()
	if dsn == "" {
		slog.Info("DATABASE_URL not set, search history disabled")
		return nil, func() {}, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open db conn: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("unable to ping database: %w", err)
	}

	slog.Info("connected to the database successfully")

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing db connection", "error", err.Error())
		}
	}

	return history.NewPgRepository(db), closeDB, nil
}
