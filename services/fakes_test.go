package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"marinehub.app/models"
	"marinehub.app/pkg/kvstore"
	"marinehub.app/pkg/pinger"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/repositories"
)

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", kvstore.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *memStore) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *memStore) Close() error { return nil }

type sentMail struct {
	To, Subject, Template string
	Data                  map[string]any
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, template string, data map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Template: template, Data: data})
	return nil
}

func (f *fakeMailer) last() sentMail {
	if len(f.sent) == 0 {
		return sentMail{}
	}
	return f.sent[len(f.sent)-1]
}

type published struct {
	Subject string
	Payload any
}

type fakePublisher struct{ events []published }

func (f *fakePublisher) Publish(_ context.Context, subject string, payload any) error {
	f.events = append(f.events, published{Subject: subject, Payload: payload})
	return nil
}

func (f *fakePublisher) Close() {}

// --- repositories ---

type fakeUserRepo struct {
	rows   map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{rows: map[uint]*models.User{}} }

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.rows {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.rows[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.rows {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdateColumns(_ context.Context, id uint, data map[string]interface{}) error {
	u, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for k, v := range data {
		switch k {
		case "full_name":
			u.FullName = v.(string)
		case "avatar_url":
			u.AvatarURL = v.(string)
		case "is_active":
			u.IsActive = v.(bool)
		}
	}
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id uint, at time.Time) error {
	u, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.EmailVerifiedAt = &at
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	u, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	if u, ok := r.rows[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r *fakeUserRepo) CountByRole(context.Context) (map[models.UserRole]int64, error) {
	out := map[models.UserRole]int64{}
	for _, u := range r.rows {
		out[u.Role]++
	}
	return out, nil
}

type fakeSuperintendentRepo struct {
	rows   map[uint]*models.SuperintendentProfile
	users  *fakeUserRepo
	nextID uint
	filter repositories.SuperintendentFilter
}

func newFakeSuperintendentRepo(users *fakeUserRepo) *fakeSuperintendentRepo {
	return &fakeSuperintendentRepo{rows: map[uint]*models.SuperintendentProfile{}, users: users}
}

func (r *fakeSuperintendentRepo) withUser(p *models.SuperintendentProfile) *models.SuperintendentProfile {
	cp := *p
	if r.users != nil {
		if u, ok := r.users.rows[p.UserID]; ok {
			uc := *u
			cp.User = &uc
		}
	}
	cp.RefreshPremium(time.Now().UTC())
	return &cp
}

func (r *fakeSuperintendentRepo) Create(_ context.Context, p *models.SuperintendentProfile) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeSuperintendentRepo) FindByID(_ context.Context, id uint) (*models.SuperintendentProfile, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.withUser(p), nil
}

func (r *fakeSuperintendentRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.SuperintendentProfile, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeSuperintendentRepo) FindByUserID(_ context.Context, userID uint) (*models.SuperintendentProfile, error) {
	for _, p := range r.rows {
		if p.UserID == userID {
			return r.withUser(p), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeSuperintendentRepo) Save(_ context.Context, p *models.SuperintendentProfile) error {
	cp := *p
	cp.User = nil
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeSuperintendentRepo) UpdateColumns(_ context.Context, id uint, data map[string]interface{}) error {
	p, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for k, v := range data {
		switch k {
		case "verified":
			p.Verified = v.(bool)
		case "premium_since":
			t := v.(time.Time)
			p.PremiumSince = &t
		case "premium_until":
			t := v.(time.Time)
			p.PremiumUntil = &t
		}
	}
	return nil
}

func (r *fakeSuperintendentRepo) FindAllPaginated(_ context.Context, filter repositories.SuperintendentFilter, params queryparams.ListParams) ([]models.SuperintendentProfile, int64, error) {
	r.filter = filter
	var out []models.SuperintendentProfile
	for _, p := range r.rows {
		out = append(out, *r.withUser(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeSuperintendentRepo) CountVerified(context.Context) (int64, error) {
	var n int64
	for _, p := range r.rows {
		if p.Verified {
			n++
		}
	}
	return n, nil
}

func (r *fakeSuperintendentRepo) CountPremium(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, p := range r.rows {
		if p.PremiumUntil != nil && p.PremiumUntil.After(now) {
			n++
		}
	}
	return n, nil
}

type fakeManagerRepo struct {
	rows   map[uint]*models.ManagerProfile
	nextID uint
}

func newFakeManagerRepo() *fakeManagerRepo { return &fakeManagerRepo{rows: map[uint]*models.ManagerProfile{}} }

func (r *fakeManagerRepo) Create(_ context.Context, p *models.ManagerProfile) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *fakeManagerRepo) FindByUserID(_ context.Context, userID uint) (*models.ManagerProfile, error) {
	for _, p := range r.rows {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeManagerRepo) Save(_ context.Context, p *models.ManagerProfile) error {
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

type fakeJobRepo struct {
	rows    map[uint]*models.Job
	nextID  uint
	deleted map[uint]uint
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{rows: map[uint]*models.Job{}, deleted: map[uint]uint{}}
}

func (r *fakeJobRepo) Create(_ context.Context, j *models.Job) error {
	r.nextID++
	j.ID = r.nextID
	j.UpdatedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	cp := *j
	r.rows[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id uint) (*models.Job, error) {
	j, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Job, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeJobRepo) Save(_ context.Context, j *models.Job) error {
	cp := *j
	r.rows[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) UpdateColumns(_ context.Context, id uint, data map[string]interface{}) error {
	j, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for k, v := range data {
		switch k {
		case "status":
			j.Status = v.(models.JobStatus)
		case "title":
			j.Title = v.(string)
		case "day_rate_max":
			j.DayRateMax = v.(float64)
		}
	}
	return nil
}

func (r *fakeJobRepo) SoftDelete(_ context.Context, id uint, by uint) error {
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, id)
	r.deleted[id] = by
	return nil
}

func (r *fakeJobRepo) FindAllPaginated(_ context.Context, filter repositories.JobFilter, params queryparams.ListParams) ([]models.Job, int64, error) {
	var out []models.Job
	for _, j := range r.rows {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.ManagerUserID != 0 && j.ManagerUserID != filter.ManagerUserID {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out, int64(len(out)), nil
}

func (r *fakeJobRepo) IncrementApplications(_ context.Context, id uint, delta int) error {
	j, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	j.ApplicationsCount += delta
	if j.ApplicationsCount < 0 {
		j.ApplicationsCount = 0
	}
	return nil
}

func (r *fakeJobRepo) CountByStatus(_ context.Context, status models.JobStatus) (int64, error) {
	var n int64
	for _, j := range r.rows {
		if j.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeJobRepo) ListOpenForSitemap(ctx context.Context) ([]models.Job, error) {
	jobs, _, err := r.FindAllPaginated(ctx, repositories.JobFilter{Status: models.JobStatusOpen}, queryparams.ListParams{})
	return jobs, err
}

type fakeApplicationRepo struct {
	rows   map[uint]*models.JobApplication
	jobs   *fakeJobRepo
	users  *fakeUserRepo
	nextID uint
	// beforeSet runs between the locked read and the status write, standing
	// in for a request that commits in between.
	beforeSet func(a *models.JobApplication)
}

func newFakeApplicationRepo(jobs *fakeJobRepo, users *fakeUserRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{rows: map[uint]*models.JobApplication{}, jobs: jobs, users: users}
}

func (r *fakeApplicationRepo) Create(_ context.Context, a *models.JobApplication) error {
	for _, existing := range r.rows {
		if existing.JobID == a.JobID && existing.SuperintendentUserID == a.SuperintendentUserID {
			return repositories.ErrDuplicate
		}
	}
	r.nextID++
	a.ID = r.nextID
	cp := *a
	cp.Job = nil
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id uint) (*models.JobApplication, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	if j, ok := r.jobs.rows[a.JobID]; ok {
		jc := *j
		cp.Job = &jc
	}
	if u, ok := r.users.rows[a.SuperintendentUserID]; ok {
		uc := *u
		cp.Superintendent = &uc
	}
	return &cp, nil
}

func (r *fakeApplicationRepo) UpdateColumns(_ context.Context, id uint, data map[string]interface{}) error {
	a, ok := r.rows[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if v, ok := data["status"]; ok {
		a.Status = v.(models.ApplicationStatus)
	}
	return nil
}

func (r *fakeApplicationRepo) FindByIDForUpdate(_ context.Context, id uint) (*models.JobApplication, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApplicationRepo) SetStatus(_ context.Context, id uint, from, to models.ApplicationStatus) (bool, error) {
	a, ok := r.rows[id]
	if !ok {
		return false, nil
	}
	if r.beforeSet != nil {
		r.beforeSet(a)
	}
	if a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

func (r *fakeApplicationRepo) FindByJobPaginated(_ context.Context, jobID uint, status models.ApplicationStatus, _ queryparams.ListParams) ([]models.JobApplication, int64, error) {
	var out []models.JobApplication
	for _, a := range r.rows {
		if a.JobID == jobID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) FindBySuperintendentPaginated(_ context.Context, userID uint, _ queryparams.ListParams) ([]models.JobApplication, int64, error) {
	var out []models.JobApplication
	for _, a := range r.rows {
		if a.SuperintendentUserID == userID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeApplicationRepo) Count(context.Context, string, ...interface{}) (int64, error) {
	return int64(len(r.rows)), nil
}

type fakeNotificationRepo struct {
	rows   []*models.Notification
	nextID uint
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now().UTC()
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotificationRepo) FindByUserPaginated(_ context.Context, userID uint, unreadOnly bool, _ queryparams.ListParams) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.rows {
		if n.UserID == userID && (!unreadOnly || n.ReadAt == nil) {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uint) (int64, error) {
	var c int64
	for _, n := range r.rows {
		if n.UserID == userID && n.ReadAt == nil {
			c++
		}
	}
	return c, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, id uint, at time.Time) error {
	for _, n := range r.rows {
		if n.ID == id && n.UserID == userID {
			if n.ReadAt == nil {
				n.ReadAt = &at
			}
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint, at time.Time) (int64, error) {
	var c int64
	for _, n := range r.rows {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &at
			c++
		}
	}
	return c, nil
}

func (r *fakeNotificationRepo) forUser(userID uint) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeBlogRepo struct {
	posts      map[uint]*models.BlogPost
	slugs      map[string]bool // includes soft-deleted
	seo        map[uint]*models.BlogSEOData
	categories []models.BlogCategory
	nextID     uint
	filter     repositories.BlogFilter

	beforeUpdate func()
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{posts: map[uint]*models.BlogPost{}, slugs: map[string]bool{}, seo: map[uint]*models.BlogSEOData{}}
}

func (r *fakeBlogRepo) CreatePost(_ context.Context, p *models.BlogPost) error {
	if r.slugs[p.Slug] {
		return repositories.ErrDuplicate
	}
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.posts[p.ID] = &cp
	r.slugs[p.Slug] = true
	return nil
}

func (r *fakeBlogRepo) UpdatePost(_ context.Context, p *models.BlogPost) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	old := r.posts[p.ID]
	if old == nil {
		return repositories.ErrNotFound
	}
	if old.Slug != p.Slug {
		if r.slugs[p.Slug] {
			return repositories.ErrDuplicate
		}
		r.slugs[p.Slug] = true
	}
	cp := *p
	cp.ViewCount = old.ViewCount
	r.posts[p.ID] = &cp
	return nil
}

func (r *fakeBlogRepo) FindPostBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			cp.SEO = r.seo[p.ID]
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeBlogRepo) SoftDeletePost(_ context.Context, id uint, _ uint) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakeBlogRepo) SlugExists(_ context.Context, slug string, excludeID uint) (bool, error) {
	if !r.slugs[slug] {
		return false, nil
	}
	if excludeID != 0 {
		if p, ok := r.posts[excludeID]; ok && p.Slug == slug {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeBlogRepo) FindPostsPaginated(_ context.Context, filter repositories.BlogFilter, _ queryparams.ListParams) ([]models.BlogPost, int64, error) {
	r.filter = filter
	var out []models.BlogPost
	for _, p := range r.posts {
		if filter.Status == "" || p.Status == filter.Status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBlogRepo) IncrementViewCount(_ context.Context, id uint) error {
	if p, ok := r.posts[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (r *fakeBlogRepo) UpsertSEO(_ context.Context, seo *models.BlogSEOData) error {
	cp := *seo
	r.seo[seo.PostID] = &cp
	return nil
}

func (r *fakeBlogRepo) CountByStatus(_ context.Context, status models.PostStatus) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeBlogRepo) ListPublishedForSitemap(context.Context) ([]models.BlogPost, error) {
	var out []models.BlogPost
	for _, p := range r.posts {
		if p.Status == models.PostStatusPublished {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBlogRepo) ListCategories(context.Context) ([]models.BlogCategory, error) {
	return r.categories, nil
}

func (r *fakeBlogRepo) CreateCategory(_ context.Context, c *models.BlogCategory) error {
	c.ID = uint(len(r.categories) + 1)
	r.categories = append(r.categories, *c)
	return nil
}

func (r *fakeBlogRepo) FindCategoryByID(_ context.Context, id uint) (*models.BlogCategory, error) {
	for _, c := range r.categories {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeBlogRepo) CategorySlugExists(_ context.Context, slug string) (bool, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakePortRepo struct{ rows []models.Port }

func (r *fakePortRepo) FindByLocode(_ context.Context, locode string) (*models.Port, error) {
	for _, p := range r.rows {
		if p.UNLocode == strings.ToUpper(locode) {
			cp := p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakePortRepo) Search(_ context.Context, filter repositories.PortFilter, _ queryparams.ListParams) ([]models.Port, int64, error) {
	var out []models.Port
	for _, p := range r.rows {
		if filter.Country == "" || p.CountryCode == strings.ToUpper(filter.Country) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakePortRepo) CountAll(context.Context) (int64, error) { return int64(len(r.rows)), nil }

type fakeAnalyticsRepo struct {
	events []*models.AnalyticsEvent
	since  time.Time
}

func (r *fakeAnalyticsRepo) Create(_ context.Context, e *models.AnalyticsEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeAnalyticsRepo) Summary(_ context.Context, since time.Time, _ int) (*repositories.AnalyticsSummary, error) {
	r.since = since
	return &repositories.AnalyticsSummary{Since: since, TotalEvents: int64(len(r.events))}, nil
}

type fakePinger struct {
	url     string
	results []pinger.Result
}

func (f *fakePinger) Ping(_ context.Context, sitemapURL string) []pinger.Result {
	f.url = sitemapURL
	return f.results
}
