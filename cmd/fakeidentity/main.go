// Command fakeidentity serves the in-memory identity service for local development.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Sajjadhussain197/umsfront/identity/identityfake"
	"github.com/Sajjadhussain197/umsfront/internal/config"
	"github.com/Sajjadhussain197/umsfront/internal/logging"
	"github.com/Sajjadhussain197/umsfront/users"
	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	logFile, err := logging.Init(config.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	figure.NewFigure("identity", "cybermedium", true).Print()
	fmt.Println()

	email := config.GetEnv("FAKE_ADMIN_EMAIL", "admin@example.com")
	password := config.GetEnv("FAKE_ADMIN_PASSWORD", "")
	generated := password == ""
	if generated {
		// Upper, lower and digit so it passes the strength rules
		password = "Adm1n" + strings.ReplaceAll(uuid.NewString(), "-", "")[:11]
	}

	backend, err := identityfake.New(identityfake.WithUser(users.User{
		FullName: "Administrator",
		Username: "admin",
		Email:    email,
		Role:     "admin",
	}, password))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed identity service")
	}

	if generated {
		log.Info().Str("email", email).Str("password", password).Msg("generated admin account")
	}

	port := config.GetEnv("FAKE_IDENTITY_PORT", "8000")
	srv := &http.Server{
		Addr:              ":" + strings.TrimPrefix(port, ":"),
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", srv.Addr).Msg("fake identity service listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("fake identity service stopped")
	}
}
