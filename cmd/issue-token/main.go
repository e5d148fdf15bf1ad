package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	identityapp "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/application"
)

// issue-token prints an HS256 bearer token signed with JWT_SECRET, for local
// testing of the authenticated GraphQL operations.
func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "local-user", "subject claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime; 0 issues a token without exp")
	name := flag.String("name", "", "optional name claim")
	flag.Parse()

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	issuer, err := identityapp.NewIssuer(secret)
	if err != nil {
		log.Fatalf("failed to build issuer: %v", err)
	}
	var extra map[string]any
	if *name != "" {
		extra = map[string]any{"name": *name}
	}
	token, err := issuer.Issue(*subject, extra, *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Println(token)
}
