// Command admintoken prints a bearer token accepted by the write guard.
//
//	ADMIN_JWT_SECRET=... go run ./cmd/admintoken -sub ops -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/logging"
	"github.com/iliyamo/movie-rental-api/internal/utils"
)

func main() {
	sub := flag.String("sub", "operator", "subject claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.AdminJWTSecret == "" {
		logging.Fatal().Msg("ADMIN_JWT_SECRET is not set")
	}

	tok, err := utils.NewAdminToken(cfg.AdminJWTSecret, *sub, *ttl)
	if err != nil {
		logging.Fatal().Err(err).Msg("sign token")
	}
	fmt.Fprintln(os.Stdout, tok.Token)
	logging.Info().Time("expires", tok.Exp).Str("sub", *sub).Msg("admin token issued")
}
