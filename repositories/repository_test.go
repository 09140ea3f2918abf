package repositories

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"marinehub.app/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"raw unique violation", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`), ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}

	other := errors.New("connection reset")
	if got := translateError(other); got != other {
		t.Errorf("unrelated errors must pass through, got %v", got)
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	if got := likePattern(`50%_off\`); got != `%50\%\_off\\%` {
		t.Errorf("likePattern = %q", got)
	}
}

func TestApplyJobFilters(t *testing.T) {
	db := dryRunDB(t)
	query := applyJobFilters(db.Model(&models.Job{}), JobFilter{
		Status:     models.JobStatusOpen,
		VesselType: "LNG Carrier",
		Port:       "nlrtm",
	}, "hull")
	stmt := query.Find(&[]models.Job{}).Statement
	sql := stmt.SQL.String()

	for _, fragment := range []string{
		"jobs.status = $1",
		"LOWER(jobs.vessel_type) = $2",
		"jobs.port_locode = $3",
		"LOWER(jobs.title) LIKE $4",
		`"jobs"."deleted_at" IS NULL`,
	} {
		if !strings.Contains(sql, fragment) {
			t.Errorf("missing %q in %s", fragment, sql)
		}
	}
	if stmt.Vars[1] != "lng carrier" || stmt.Vars[2] != "NLRTM" || stmt.Vars[3] != "%hull%" {
		t.Errorf("unexpected vars %v", stmt.Vars)
	}
}

func TestApplySuperintendentFiltersPremium(t *testing.T) {
	db := dryRunDB(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	yes := true
	query := applySuperintendentFilters(db.Model(&models.SuperintendentProfile{}), SuperintendentFilter{
		Premium:    &yes,
		ActiveOnly: true,
		Now:        now,
	}, "")
	sql := query.Find(&[]models.SuperintendentProfile{}).Statement.SQL.String()

	if !strings.Contains(sql, "superintendent_profiles.premium_until > $") {
		t.Errorf("premium filter missing: %s", sql)
	}
	if !strings.Contains(sql, `"User".email_verified_at IS NOT NULL`) {
		t.Errorf("active filter missing: %s", sql)
	}
	if !strings.Contains(sql, `LEFT JOIN "users" "User"`) {
		t.Errorf("user join missing: %s", sql)
	}
}

func TestApplyBlogFiltersTag(t *testing.T) {
	db := dryRunDB(t)
	query := applyBlogFilters(db.Model(&models.BlogPost{}), BlogFilter{
		Status: models.PostStatusPublished,
		Tag:    "Dry Dock",
	}, "")
	stmt := query.Find(&[]models.BlogPost{}).Statement

	if !strings.Contains(stmt.SQL.String(), "blog_posts.status = $1") {
		t.Errorf("status filter missing: %s", stmt.SQL.String())
	}
	if len(stmt.Vars) < 2 || stmt.Vars[1] != "%,drydock,%" {
		t.Errorf("tag pattern = %v", stmt.Vars)
	}
}

func TestApplyBlogFiltersTagEscapesWildcards(t *testing.T) {
	db := dryRunDB(t)
	query := applyBlogFilters(db.Model(&models.BlogPost{}), BlogFilter{Tag: "50%_Off"}, "")
	stmt := query.Find(&[]models.BlogPost{}).Statement

	want := `%,50\%\_off,%`
	found := false
	for _, v := range stmt.Vars {
		if v == want {
			found = true
		}
	}
	if !found {
		t.Errorf("tag pattern not escaped: %v", stmt.Vars)
	}
}

func TestPostColumnsLeaveViewCount(t *testing.T) {
	cols := postColumns(&models.BlogPost{Title: "t", ViewCount: 42})
	if _, ok := cols["view_count"]; ok {
		t.Error("view_count must not be part of a post update")
	}
	if cols["title"] != "t" {
		t.Errorf("title = %v", cols["title"])
	}
}

func TestStatusTransitionIsConditional(t *testing.T) {
	db := dryRunDB(t)
	stmt := statusTransition(db, 7, models.ApplicationStatusPending, models.ApplicationStatusWithdrawn).Statement
	sql := stmt.SQL.String()

	if !strings.HasPrefix(sql, `UPDATE "job_applications" SET`) || !strings.Contains(sql, `"status"=$`) {
		t.Errorf("unexpected update: %s", sql)
	}
	if !strings.Contains(sql, "id = $") || !strings.Contains(sql, "AND status = $") {
		t.Errorf("status guard missing: %s", sql)
	}
	found := false
	for _, v := range stmt.Vars {
		if v == models.ApplicationStatusPending {
			found = true
		}
	}
	if !found {
		t.Errorf("expected status not bound: %v", stmt.Vars)
	}
}
