package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marinehub.app/handlers/apierror"
	"marinehub.app/middlewares"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/pkg/tokens"
	"marinehub.app/services"

	"github.com/gofiber/fiber/v2"
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, bearer string) (*tokens.Claims, error) {
	switch bearer {
	case "manager":
		return &tokens.Claims{UserID: 10, Role: string(models.RoleManager)}, nil
	case "super":
		return &tokens.Claims{UserID: 20, Role: string(models.RoleSuperintendent)}, nil
	}
	return nil, services.ErrUnauthenticated
}

type fakeProfiles struct {
	services.IProfileService
	avatar []byte
}

func (f *fakeProfiles) UpdateAvatar(_ context.Context, userID uint, size int64, file io.Reader) (*models.User, error) {
	data, _ := io.ReadAll(file)
	if int64(len(data)) != size {
		return nil, services.ErrAvatarUploadFailed
	}
	f.avatar = data
	return &models.User{BaseModel: models.BaseModel{ID: userID}, AvatarURL: "/uploads/avatars/x.png"}, nil
}

type fakeApplications struct {
	services.IApplicationService
	applied services.ApplicationInput
}

func (f *fakeApplications) Apply(_ context.Context, actor services.Actor, jobID uint, in services.ApplicationInput) (*models.JobApplication, error) {
	if jobID == 2 {
		return nil, services.ErrAlreadyApplied
	}
	f.applied = in
	return &models.JobApplication{JobID: jobID, SuperintendentUserID: actor.UserID, Status: models.ApplicationStatusPending}, nil
}

type fakeNotifications struct {
	services.INotificationService
	unreadOnly bool
}

func (f *fakeNotifications) List(_ context.Context, _ uint, unreadOnly bool, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	f.unreadOnly = unreadOnly
	params.Validate()
	return queryparams.NewPaginatedResult([]models.Notification{}, 0, params), nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID, id uint) error {
	if id != 5 {
		return services.ErrNotificationNotFound
	}
	return nil
}

type panelFixture struct {
	app           *fiber.App
	profiles      *fakeProfiles
	applications  *fakeApplications
	notifications *fakeNotifications
}

func newPanelFixture() *panelFixture {
	f := &panelFixture{profiles: &fakeProfiles{}, applications: &fakeApplications{}, notifications: &fakeNotifications{}}
	app := fiber.New(fiber.Config{ErrorHandler: apierror.ErrorHandler})
	auth := middlewares.AuthMiddleware(fakeAuth{})
	superintendent := middlewares.RequireRole(models.RoleSuperintendent)

	profiles := NewProfileHandler(f.profiles)
	applications := NewApplicationHandler(f.applications)
	notifications := NewNotificationHandler(f.notifications)
	app.Post("/api/profile/avatar", auth, profiles.UploadAvatar)
	app.Post("/api/jobs/:id/applications", auth, superintendent, applications.Apply)
	app.Get("/api/notifications", auth, notifications.List)
	app.Post("/api/notifications/:id/read", auth, notifications.MarkRead)
	f.app = app
	return f
}

func (f *panelFixture) do(t *testing.T, req *http.Request, token string) (int, string) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "avatar.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(content)
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/profile/avatar", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadAvatar(t *testing.T) {
	f := newPanelFixture()
	content := []byte("\x89PNG\r\n\x1a\nrest-of-image")

	status, body := f.do(t, multipartRequest(t, "avatar", content), "manager")
	if status != http.StatusOK || !strings.Contains(body, "/uploads/avatars/x.png") {
		t.Fatalf("upload: %d %s", status, body)
	}
	if !bytes.Equal(f.profiles.avatar, content) {
		t.Error("service did not receive the uploaded bytes")
	}

	if status, _ := f.do(t, multipartRequest(t, "picture", content), "manager"); status != http.StatusBadRequest {
		t.Errorf("wrong field name: status %d", status)
	}
	big := make([]byte, services.MaxAvatarBytes+1)
	if status, body := f.do(t, multipartRequest(t, "avatar", big), "manager"); status != http.StatusBadRequest || !strings.Contains(body, "2MB") {
		t.Errorf("oversized: %d %s", status, body)
	}
	if status, _ := f.do(t, multipartRequest(t, "avatar", content), ""); status != http.StatusUnauthorized {
		t.Errorf("anonymous upload: status %d", status)
	}
}

func TestApplyEndpoint(t *testing.T) {
	f := newPanelFixture()

	status, body := f.do(t, httptest.NewRequest(http.MethodPost, "/api/jobs/1/applications", nil), "super")
	if status != http.StatusCreated || !strings.Contains(body, `"status":"pending"`) {
		t.Errorf("apply without body: %d %s", status, body)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/1/applications", strings.NewReader(`{"cover_letter":"Available from May","proposed_rate":650}`))
	req.Header.Set("Content-Type", "application/json")
	if status, _ := f.do(t, req, "super"); status != http.StatusCreated || f.applications.applied.ProposedRate != 650 {
		t.Errorf("apply with body: %d %+v", status, f.applications.applied)
	}

	if status, _ := f.do(t, httptest.NewRequest(http.MethodPost, "/api/jobs/2/applications", nil), "super"); status != http.StatusConflict {
		t.Errorf("duplicate: status %d", status)
	}
	if status, _ := f.do(t, httptest.NewRequest(http.MethodPost, "/api/jobs/1/applications", nil), "manager"); status != http.StatusForbidden {
		t.Errorf("manager applying: status %d", status)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	f := newPanelFixture()

	if status, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/api/notifications?unread=true", nil), "manager"); status != http.StatusOK || !f.notifications.unreadOnly {
		t.Errorf("unread list: status %d unreadOnly=%t", status, f.notifications.unreadOnly)
	}
	if status, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/api/notifications?unread=yes-please", nil), "manager"); status != http.StatusBadRequest {
		t.Errorf("bad unread flag: status %d", status)
	}
	if status, _ := f.do(t, httptest.NewRequest(http.MethodPost, "/api/notifications/5/read", nil), "manager"); status != http.StatusNoContent {
		t.Errorf("mark read: status %d", status)
	}
	if status, _ := f.do(t, httptest.NewRequest(http.MethodPost, "/api/notifications/6/read", nil), "manager"); status != http.StatusNotFound {
		t.Errorf("foreign notification: status %d", status)
	}
}
