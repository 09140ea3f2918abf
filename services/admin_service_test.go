package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"marinehub.app/models"
)

type adminFixture struct {
	svc           *AdminService
	users         *fakeUserRepo
	supers        *fakeSuperintendentRepo
	notifications *fakeNotificationRepo
	profileID     uint
	now           time.Time
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		users:         newFakeUserRepo(),
		notifications: &fakeNotificationRepo{},
		now:           time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC),
	}
	f.supers = newFakeSuperintendentRepo(f.users)
	jobs := newFakeJobRepo()
	f.svc = NewAdminService(f.users, f.supers, jobs, newFakeApplicationRepo(jobs, f.users), newFakeBlogRepo(),
		&fakePortRepo{rows: []models.Port{{UNLocode: "NLRTM"}}}, &fakeTx{},
		NewNotificationService(f.notifications, nil)).(*AdminService)
	f.svc.now = func() time.Time { return f.now }

	ctx := context.Background()
	u := &models.User{Email: "s@example.com", Role: models.RoleSuperintendent}
	_ = f.users.Create(ctx, u)
	p := &models.SuperintendentProfile{UserID: u.ID}
	_ = f.supers.Create(ctx, p)
	f.profileID = p.ID
	return f
}

func TestGrantPremium(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	profile, err := f.svc.GrantPremium(ctx, admin, f.profileID, 1)
	if err != nil {
		t.Fatalf("GrantPremium: %v", err)
	}
	// Jan 31 + 1 month normalises to Mar 3 with AddDate.
	wantUntil := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	if !profile.PremiumUntil.Equal(wantUntil) {
		t.Errorf("until = %v, want %v", profile.PremiumUntil, wantUntil)
	}
	if !profile.PremiumSince.Equal(f.now) || !profile.Premium.Active {
		t.Errorf("unexpected premium state %+v", profile.Premium)
	}

	// Extending while active keeps since and stacks on the old expiry.
	f.now = f.now.Add(24 * time.Hour)
	extended, err := f.svc.GrantPremium(ctx, admin, f.profileID, 2)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !extended.PremiumUntil.Equal(wantUntil.AddDate(0, 2, 0)) {
		t.Errorf("extended until = %v", extended.PremiumUntil)
	}
	if !extended.PremiumSince.Equal(time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("since moved: %v", extended.PremiumSince)
	}

	if n := f.notifications.forUser(extended.UserID); len(n) != 2 || n[0].Kind != models.NotificationPremiumGranted {
		t.Errorf("notifications = %+v", n)
	}
}

func TestGrantPremiumRejectsBadInput(t *testing.T) {
	f := newAdminFixture(t)
	for _, months := range []int{0, -1, 25} {
		if _, err := f.svc.GrantPremium(context.Background(), admin, f.profileID, months); !errors.Is(err, ErrInvalidPremiumMonths) {
			t.Errorf("months=%d: got %v", months, err)
		}
	}
	if _, err := f.svc.GrantPremium(context.Background(), admin, 404, 3); !errors.Is(err, ErrSuperintendentNotFound) {
		t.Errorf("missing profile: got %v", err)
	}
}

func TestSetVerifiedNotifiesOnce(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := f.svc.SetVerified(ctx, admin, f.profileID, true)
		if err != nil {
			t.Fatalf("SetVerified: %v", err)
		}
		if !p.Verified {
			t.Fatal("profile not verified")
		}
	}
	if n := f.notifications.forUser(1); len(n) != 1 || n[0].Kind != models.NotificationProfileVerified {
		t.Errorf("notifications = %+v", n)
	}
}

func TestAdminListAndStats(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	yes := true

	res, err := f.svc.ListSuperintendents(ctx, AdminSuperintendentQuery{Search: "capt", Premium: &yes})
	if err != nil {
		t.Fatalf("ListSuperintendents: %v", err)
	}
	if res.Meta.Total != 1 {
		t.Errorf("total = %d", res.Meta.Total)
	}
	if f.supers.filter.Premium == nil || !*f.supers.filter.Premium || !f.supers.filter.Now.Equal(f.now) {
		t.Errorf("filter = %+v", f.supers.filter)
	}

	stats, err := f.svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalUsers != 1 || stats.UsersByRole[models.RoleSuperintendent] != 1 || stats.PortsInReference != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
