package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marinehub.app/handlers/apierror"
	"marinehub.app/models"
	"marinehub.app/pkg/pinger"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/repositories"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

type fakeAdmin struct {
	services.IAdminService
	query  services.AdminSuperintendentQuery
	months int
}

func (f *fakeAdmin) ListSuperintendents(_ context.Context, q services.AdminSuperintendentQuery) (*queryparams.PaginatedResult, error) {
	f.query = q
	return queryparams.NewPaginatedResult([]models.SuperintendentProfile{}, 0, queryparams.DefaultListParams("created_at")), nil
}

func (f *fakeAdmin) GrantPremium(_ context.Context, _ services.Actor, id uint, months int) (*models.SuperintendentProfile, error) {
	f.months = months
	if months < 1 || months > 24 {
		return nil, services.ErrInvalidPremiumMonths
	}
	if id != 7 {
		return nil, services.ErrSuperintendentNotFound
	}
	return &models.SuperintendentProfile{BaseModel: models.BaseModel{ID: id}}, nil
}

type fakeAnalytics struct {
	services.IAnalyticsService
	days int
}

func (f *fakeAnalytics) Summary(_ context.Context, days int) (*repositories.AnalyticsSummary, error) {
	f.days = days
	return &repositories.AnalyticsSummary{TotalEvents: 42}, nil
}

type fakeSitemap struct{ services.ISitemapService }

func (fakeSitemap) Ping(context.Context) []pinger.Result {
	return []pinger.Result{{URL: "https://a.example/ping", Status: 200}, {URL: "https://b.example/ping", Error: "circuit breaker is open"}}
}

func newAdminApp(admin *fakeAdmin, analytics *fakeAnalytics) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apierror.ErrorHandler})
	h := NewAdminHandler(admin, analytics, fakeSitemap{})
	app.Get("/superintendents", h.ListSuperintendents)
	app.Post("/superintendents/:id/premium", h.GrantPremium)
	app.Get("/analytics/summary", h.AnalyticsSummary)
	app.Get("/sitemap/ping", h.PingSitemap)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(out)
}

func TestAdminSuperintendentEndpoints(t *testing.T) {
	admin, analytics := &fakeAdmin{}, &fakeAnalytics{}
	app := newAdminApp(admin, analytics)

	if status, _ := call(t, app, http.MethodGet, "/superintendents?search=smith&verified=false&premium=true", ""); status != http.StatusOK {
		t.Fatalf("list status %d", status)
	}
	q := admin.query
	if q.Search != "smith" || q.Verified == nil || *q.Verified || q.Premium == nil || !*q.Premium {
		t.Errorf("query %+v", q)
	}
	if status, _ := call(t, app, http.MethodGet, "/superintendents?premium=sometimes", ""); status != http.StatusBadRequest {
		t.Errorf("invalid premium flag: status %d", status)
	}

	tests := []struct {
		path, body string
		want       int
	}{
		{"/superintendents/7/premium", `{"months":3}`, http.StatusOK},
		{"/superintendents/7/premium", `{"months":30}`, http.StatusBadRequest},
		{"/superintendents/8/premium", `{"months":3}`, http.StatusNotFound},
		{"/superintendents/x/premium", `{"months":3}`, http.StatusBadRequest},
		{"/superintendents/7/premium", `{"months":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if status, body := call(t, app, http.MethodPost, tt.path, tt.body); status != tt.want {
			t.Errorf("POST %s %s: status %d, want %d (%s)", tt.path, tt.body, status, tt.want, body)
		}
	}
}

func TestAnalyticsSummaryAndPing(t *testing.T) {
	admin, analytics := &fakeAdmin{}, &fakeAnalytics{}
	app := newAdminApp(admin, analytics)

	if _, body := call(t, app, http.MethodGet, "/analytics/summary", ""); analytics.days != services.DefaultSummaryDays || !strings.Contains(body, `"total_events":42`) {
		t.Errorf("default days %d body %s", analytics.days, body)
	}
	call(t, app, http.MethodGet, "/analytics/summary?days=30", "")
	if analytics.days != 30 {
		t.Errorf("days = %d", analytics.days)
	}

	status, body := call(t, app, http.MethodGet, "/sitemap/ping", "")
	if status != http.StatusOK || !strings.Contains(body, "circuit breaker is open") || !strings.Contains(body, `"status":200`) {
		t.Errorf("ping: %d %s", status, body)
	}
}
