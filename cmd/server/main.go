package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/khoaluu/wedding-rsvp/internal/auth"
	"github.com/khoaluu/wedding-rsvp/internal/config"
	"github.com/khoaluu/wedding-rsvp/internal/database"
	"github.com/khoaluu/wedding-rsvp/internal/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const sessionSweepInterval = time.Hour

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load .env file (ignore error if the file doesn't exist)
	if err := godotenv.Overload(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Expired sessions never validate, the sweep just keeps the table small.
	go sweepSessions(db)

	sessions := auth.NewSessions(db, cfg.SessionTTL, cfg.SecureCookies)
	srv := server.New(cfg, db, sessions)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func sweepSessions(db *database.DB) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := db.DeleteExpiredSessions()
		if err != nil {
			log.Error().Err(err).Msg("failed to sweep expired sessions")
			continue
		}
		if removed > 0 {
			log.Info().Int64("removed", removed).Msg("swept expired sessions")
		}
	}
}
