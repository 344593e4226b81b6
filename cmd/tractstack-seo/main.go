package main

import (
	"fmt"
	"log"
	"os"

	"github.com/AtRiskMedia/tractstack-seo/internal/application/startup"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/security"
)

const usage = `usage: tractstack-seo [command]

commands:
  serve                    start the insights server (default)
  hash-password <password> print a bcrypt hash for ADMIN_PASSWORD_HASH
  gen-secret               print a random value for ADMIN_JWT_SECRET
`

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := startup.Initialize(); err != nil {
			log.Fatalf("Application startup failed: %v", err)
		}
		log.Println("Application has shut down gracefully.")

	case "hash-password":
		if len(os.Args) < 3 || os.Args[2] == "" {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		hash, err := security.HashPassword(os.Args[2])
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)

	case "gen-secret":
		secret, err := security.GenerateSecureKey(32)
		if err != nil {
			log.Fatalf("Failed to generate secret: %v", err)
		}
		fmt.Println(secret)

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}
