package database

import (
	"strings"
	"testing"

	"go.uber.org/multierr"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestInitializeNothingToDo(t *testing.T) {
	if err := Initialize(nil, Options{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
}

func TestSeedersKeepGoingAfterAdminFailure(t *testing.T) {
	err := CheckAndRunSeeders(dryRunDB(t), Options{AdminEmail: "  "})
	if err == nil {
		t.Fatal("expected the empty admin email to fail")
	}
	errs := multierr.Errors(err)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "admin email is empty") {
		t.Errorf("errors = %v", errs)
	}
}
