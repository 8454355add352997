package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/engine"
	"furnace_engine/internal/handlers"
	"furnace_engine/internal/logger"
	"furnace_engine/internal/repository"
	"furnace_engine/internal/repository/db"
	"furnace_engine/internal/server"
	"furnace_engine/internal/service"

	"github.com/spf13/viper"
)

const (
	shutdownTimeout = 10 * time.Second
	eventBuffer     = 1024
)

func main() {
	log := logger.Get(logger.InfoLevel)

	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	logger.SetLevel(viper.GetString("log.level"))

	cats, err := loadCatalogs(log)
	if err != nil {
		log.Fatalw("failed to load catalogs", "err", err)
	}

	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies; the recorder must exist before the engine it observes
	repos := repository.NewRepository(sqlDB)
	rec := service.NewEffectsRecorder(repos.EventRepo, log, eventBuffer)
	eng := engine.New(cats, engine.Tuning{
		RoomTemperature: viper.GetFloat64("sim.room_temperature"),
	}, rec)
	services := service.NewService(repos, eng, rec, service.Config{
		Auth: service.AuthConfig{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
		AutosaveEvery: viper.GetInt("sim.autosave_every"),
	}, log)
	apiHandler := handlers.NewHandler(services, log)

	restoreFurnaces(services, log)

	recCtx, stopRecorder := context.WithCancel(context.Background())
	recDone := make(chan struct{})
	go func() {
		rec.Run(recCtx)
		close(recDone)
	}()

	simCtx, stopSim := context.WithCancel(context.Background())
	simDone := make(chan struct{})
	go func() {
		services.Simulator.Run(simCtx, viper.GetDuration("sim.tick"))
		close(simDone)
	}()

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForSignal()
	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	stopSim()
	<-simDone
	persistOnExit(ctx, services, log)

	stopRecorder()
	<-recDone
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	viper.SetDefault("port", server.DefaultPort)
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("db.path", "app.db")
	viper.SetDefault("sim.tick", service.DefaultTick)
	viper.SetDefault("sim.room_temperature", engine.DefaultTuning().RoomTemperature)
	viper.SetDefault("sim.autosave_every", 1200)
	viper.SetDefault("catalogs.dir", "configs/catalogs")
	viper.SetDefault("snapshot.path", "data/furnaces.snap.zst")
	viper.SetDefault("auth.token_ttl", time.Hour)

	viper.SetEnvPrefix("FURNACE")
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// loadCatalogs reads catalogs.dir, or falls back to the built-in tables when
// the directory does not exist.
func loadCatalogs(log *logger.Logger) (*catalog.Catalogs, error) {
	dir := viper.GetString("catalogs.dir")
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Infow("catalogs dir not found; using built-in catalogs", "dir", dir)
		return catalog.Defaults(), nil
	}
	cats, err := catalog.Load(dir)
	if err != nil {
		return nil, err
	}
	log.Infow("catalogs loaded", "dir", dir,
		"archetypes", len(cats.Archetypes.Archetypes()),
		"fuels", len(cats.Fuels.Fuels()),
		"recipes", len(cats.Recipes.Recipes()))
	return cats, nil
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", dbPath)
	return db.InitDB(dbPath)
}

// restoreFurnaces loads the SQLite rows, or the snapshot archive when the
// table is empty.
func restoreFurnaces(services *service.Service, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	n, err := services.Persistence.Restore(ctx)
	if err != nil {
		log.Errorw("restore from sqlite failed", "err", err)
	}
	if n > 0 {
		log.Infow("furnaces restored", "source", "sqlite", "count", n)
		return
	}

	path := viper.GetString("snapshot.path")
	if _, err := os.Stat(path); err != nil {
		return
	}
	n, err = services.Persistence.LoadArchive(path)
	if err != nil {
		log.Errorw("restore from snapshot failed", "path", path, "err", err)
		return
	}
	log.Infow("furnaces restored", "source", "snapshot", "path", path, "count", n)
}

// persistOnExit shuts every instance down, saves the final states and writes
// the archive.
func persistOnExit(ctx context.Context, services *service.Service, log *logger.Logger) {
	path := viper.GetString("snapshot.path")
	n, err := services.Persistence.ShutdownAll(ctx, path)
	if err != nil {
		log.Errorw("final save failed", "path", path, "count", n, "err", err)
		return
	}
	log.Infow("furnaces saved", "path", path, "count", n)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
