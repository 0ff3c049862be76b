// Command devtoken prints a bearer token signed with the configured secret,
// for calling the API locally without an identity provider.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nikhil8615/movie-booking/internal/config"
	"github.com/nikhil8615/movie-booking/internal/pkg/token"
)

func main() {
	userID := flag.String("user", "", "user id placed in the token subject")
	username := flag.String("name", "", "optional username claim")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
		os.Exit(1)
	}
	cfg := config.Load()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-name <username>]")
		os.Exit(2)
	}

	raw, err := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL).Issue(*userID, *username)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to issue token:", err)
		os.Exit(1)
	}
	fmt.Println(raw)
}
