package main

import (
	"fmt"
	"os"

	"fleet-registry/internal/auth"
	"fleet-registry/internal/config"
	"fleet-registry/internal/db"
	httphandler "fleet-registry/internal/http"
	"fleet-registry/internal/logger"
	"fleet-registry/internal/repository"
	"fleet-registry/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	vehicleRepo := repository.NewVehicleRepository(database)
	licenseRepo := repository.NewLicenseRepository(database)
	militaryRepo := repository.NewMilitaryLicenseRepository(database)
	userRepo := repository.NewUserRepository(database)

	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	vehicleService := service.NewVehicleService(vehicleRepo, cfg.List.VehiclePageSize)
	licenseService := service.NewLicenseService(licenseRepo, vehicleRepo, cfg.List.DefaultPageSize)
	militaryService := service.NewMilitaryLicenseService(militaryRepo, vehicleRepo, cfg.List.DefaultPageSize)
	userService := service.NewUserService(userRepo, tokens, cfg.List.DefaultPageSize)

	handler := httphandler.NewHandler(
		vehicleService,
		licenseService,
		militaryService,
		userService,
		tokens,
		appLogger,
		cfg.Environment,
		cfg.Auth.CookieTTL,
	)
	router := httphandler.NewRouter(handler, cfg.HTTP.AllowedOrigins, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting registry service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
