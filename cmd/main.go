package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srimaansri/cooling-the-cloud/internal/handlers"
	"github.com/srimaansri/cooling-the-cloud/internal/logger"
	"github.com/srimaansri/cooling-the-cloud/internal/repository"
	"github.com/srimaansri/cooling-the-cloud/internal/server"
	"github.com/srimaansri/cooling-the-cloud/internal/service"
	"github.com/srimaansri/cooling-the-cloud/internal/solver"

	coolingcloud "github.com/srimaansri/cooling-the-cloud"

	"github.com/spf13/viper"
)

const defaultSchedulerTick = 10 * time.Minute

func main() {
	// load config.yml first so the logger level can come from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	level := viper.GetString("log.level")
	if level == "" {
		level = logger.InfoLevel
	}
	log := logger.Get(level)

	signingKey := viper.GetString("auth.signing_key")
	if signingKey == "" {
		log.Fatalw("auth.signing_key must be set in config")
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	orch := solver.NewOrchestrator(log, solver.DefaultAdapters()...)
	services := service.NewService(repos, orch, buildDefaults(), signingKey, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the day-ahead scheduler (via composed service)
	go services.Scheduler.Run(ctx, schedulerTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// buildDefaults maps the facility.* config block into the defaults applied
// when an optimize request leaves a parameter unset.
func buildDefaults() service.Defaults {
	return service.Defaults{
		Facility: coolingcloud.FacilityConfig{
			TotalCapacityMW:        viper.GetFloat64("facility.total_capacity_mw"),
			CriticalLoadMW:         viper.GetFloat64("facility.critical_load_mw"),
			FlexibleCapacityMW:     viper.GetFloat64("facility.flexible_capacity_mw"),
			RequiredFlexibleMWh:    viper.GetFloat64("facility.required_flexible_energy_mwh"),
			CoolingRequirementMW:   viper.GetFloat64("facility.cooling_requirement_mw"),
			WaterCoolingCapacityMW: viper.GetFloat64("facility.water_cooling_capacity_mw"),
			ChillerCapacityMW:      viper.GetFloat64("facility.chiller_capacity_mw"),
			WaterKWPerKWCooling:    viper.GetFloat64("facility.water_kw_per_kw_cooling"),
			ChillerKWPerKWCooling:  viper.GetFloat64("facility.chiller_kw_per_kw_cooling"),
			GallonsPerMWCooling:    viper.GetFloat64("facility.gallons_per_mw_cooling"),
			MaxDailyWaterGallons:   viper.GetFloat64("facility.max_daily_water_gallons"),
			MaxRampMWPerHour:       viper.GetFloat64("facility.max_ramp_mw_per_hour"),
			DemandChargePerMW:      viper.GetFloat64("facility.demand_charge_per_mw"),
			SolverTimeLimitS:       viper.GetFloat64("solver.time_limit_s"),
		},
		WaterPrice:      viper.GetFloat64("water_price_per_1000_gal"),
		Variant:         viper.GetString("variant"),
		PreferredSolver: viper.GetString("solver.preferred"),
	}
}

func schedulerTick() time.Duration {
	if d := viper.GetDuration("scheduler.tick"); d > 0 {
		return d
	}
	return defaultSchedulerTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
