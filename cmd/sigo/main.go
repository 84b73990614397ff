package main

import (
	"log"

	"github.com/sigo-dev/sigo/db"
	"github.com/sigo-dev/sigo/internal/auth"
	"github.com/sigo-dev/sigo/internal/config"
	"github.com/sigo-dev/sigo/internal/powerbi"
	"github.com/sigo-dev/sigo/internal/router"
)

func main() {
	cfg, err := config.New()

	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	database, err := db.Connect(cfg.Database.DSN())

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	gateway := powerbi.NewClient(powerbi.Config{
		TenantID:     cfg.PowerBI.TenantID,
		ClientID:     cfg.PowerBI.ClientID,
		ClientSecret: cfg.PowerBI.ClientSecret,
		BaseURL:      cfg.PowerBI.BaseURL,
	})

	r := router.New(router.Dependencies{
		DB:      database,
		Issuer:  issuer,
		Gateway: gateway,
	})

	log.Printf("Starting server on %s", cfg.ServerAddr())

	if err := r.Run(cfg.ServerAddr()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
