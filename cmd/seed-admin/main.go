package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"github.com/google/uuid"
)

// Seeds the first admin user so a fresh deployment can log in. Run once per
// environment; further users are provisioned through the API.
func main() {
	username := flag.String("username", "admin", "Admin username")
	name := flag.String("name", "Administrator", "Admin display name")
	email := flag.String("email", "", "Optional email")
	orgID := flag.String("org-id", "", "Org id (defaults to ORG_ID env, else a new uuid)")
	flag.Parse()

	password := strings.TrimSpace(os.Getenv("SEED_ADMIN_PASSWORD"))
	if password == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD env is required")
		os.Exit(1)
	}

	org := strings.TrimSpace(*orgID)
	if org == "" {
		org = strings.TrimSpace(os.Getenv("ORG_ID"))
	}
	if org == "" {
		org = uuid.NewString()
	}

	ctx := context.Background()
	// Explicit DB connect (config no longer connects DB in init()).
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	models.MigrateTable()

	user, err := models.CreateUser(ctx, &models.NewUser{
		OrgId:    org,
		Username: *username,
		Name:     *name,
		Email:    strings.TrimSpace(*email),
		Password: password,
		Role:     models.UserRoleAdmin,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("created admin user id=%d username=%s org_id=%s\n", user.ID, user.Username, user.OrgId)
}
