package main

import (
	"fmt"
	"os"
	"time"

	"github.com/construlink/contracts-admin/internal/attach"
	"github.com/construlink/contracts-admin/internal/auth"
	"github.com/construlink/contracts-admin/internal/config"
	"github.com/construlink/contracts-admin/internal/db"
	"github.com/construlink/contracts-admin/internal/excel"
	httphandler "github.com/construlink/contracts-admin/internal/http"
	"github.com/construlink/contracts-admin/internal/http/middleware"
	"github.com/construlink/contracts-admin/internal/logger"
	"github.com/construlink/contracts-admin/internal/pdf"
	"github.com/construlink/contracts-admin/internal/repository"
	"github.com/construlink/contracts-admin/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	attachStore, err := attach.NewStore(cfg.Attach.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init attachment store")
	}

	sheetGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	contractRepo := repository.NewContractRepository(database)
	priceRepo := repository.NewPriceRepository(database)
	userRepo := repository.NewUserRepository(database)

	issuer := auth.NewIssuer(cfg.Auth.AccessSecret, time.Duration(cfg.Auth.AccessTTLHours)*time.Hour)
	revoker := auth.NewRevoker()

	authService := service.NewAuthService(userRepo, issuer, revoker, log)
	contractService := service.NewContractService(contractRepo, attachStore, sheetGenerator, log)
	priceService := service.NewPriceService(priceRepo, excel.NewGenerator(), log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(authService, contractService, priceService, log)
	authMiddleware := middleware.Auth(tokenParser, revoker)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.HTTP.AllowedOrigins, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts admin service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
