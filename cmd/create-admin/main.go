// Command create-admin provisions or rotates an administrator credential.
// The password is bcrypt-hashed before it touches the database.
//
//	create-admin -username admin -password 'secret'
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/khoaluu/wedding-rsvp/internal/auth"
	"github.com/khoaluu/wedding-rsvp/internal/config"
	"github.com/khoaluu/wedding-rsvp/internal/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal().Msg("both -username and -password are required")
	}

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
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	admin, err := db.UpsertAdminUser(*username, hash)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin user")
	}

	log.Info().Str("username", admin.Username).Int64("id", admin.ID).Msg("admin user ready")
}
