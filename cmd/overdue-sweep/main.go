package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/northguard/safety_backend/config"
	"bitbucket.org/northguard/safety_backend/models"
	"bitbucket.org/northguard/safety_backend/storage"
	"bitbucket.org/northguard/safety_backend/utils"
	"bitbucket.org/northguard/safety_backend/workflow"
)

// Emits finding.overdue events for every finding past its corrective-action
// due date. Overdue-ness is computed on read everywhere; this job only exists
// so notification consumers hear about it. Run it from cron.
func main() {
	orgID := flag.String("org-id", "", "Optional: sweep only one org. If empty, sweeps all orgs with findings.")
	flag.Parse()

	ctx := context.Background()
	// Explicit DB connect (config no longer connects DB in init()).
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	logger := config.GetLogger()
	store := storage.NewGormStore(db)
	engine := workflow.NewEngine(store, models.NewStoreCatalog(store), &models.OutboxSink{DB: db}, logger)

	// Events carry a system actor; there is no user behind a cron run.
	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "OverdueSweep")

	var orgIds []string
	if strings.TrimSpace(*orgID) != "" {
		orgIds = []string{strings.TrimSpace(*orgID)}
	} else {
		var err error
		orgIds, err = workflow.ListFindingOrgIds(ctx, db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list orgs: %v\n", err)
			os.Exit(1)
		}
	}

	total := 0
	for _, org := range orgIds {
		emitted, err := engine.SweepOverdueFindings(ctx, org)
		if err != nil {
			fmt.Fprintf(os.Stderr, "org %s: sweep failed: %v\n", org, err)
			continue
		}
		total += emitted
	}
	fmt.Printf("swept %d org(s), emitted %d overdue event(s)\n", len(orgIds), total)
}
