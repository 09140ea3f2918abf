package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/pkg/slug"
	"marinehub.app/pkg/validation"
	"marinehub.app/repositories"

	"go.uber.org/zap"
)

// BlogServiceError is returned by BlogService.
type BlogServiceError string

func (e BlogServiceError) Error() string { return string(e) }

const (
	ErrPostNotFound       BlogServiceError = "blog post not found"
	ErrSlugTaken          BlogServiceError = "slug is already in use"
	ErrInvalidSlug        BlogServiceError = "slug may only contain lowercase letters, digits and hyphens"
	ErrCategoryNotFound   BlogServiceError = "blog category not found"
	ErrCategoryExists     BlogServiceError = "blog category already exists"
	ErrPostSaveFailed     BlogServiceError = "blog post could not be saved"
	ErrPostDeletionFailed BlogServiceError = "blog post could not be deleted"
)

const (
	WordsPerMinute   = 200
	excerptMaxRunes  = 200
	maxSlugAttempts  = 1000
	fallbackPostSlug = "post"
)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ReadingTime is ceil(words / 200) with a one minute floor. Markup is ignored.
func ReadingTime(content string) int {
	words := len(strings.Fields(htmlTagPattern.ReplaceAllString(content, " ")))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// makeExcerpt cuts plain text at a word boundary.
func makeExcerpt(content string) string {
	text := strings.Join(strings.Fields(htmlTagPattern.ReplaceAllString(content, " ")), " ")
	if utf8.RuneCountInString(text) <= excerptMaxRunes {
		return text
	}
	runes := []rune(text)[:excerptMaxRunes]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > excerptMaxRunes/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

// SEOInput overrides the generated meta tags of a post.
type SEOInput struct {
	MetaTitle       string `json:"meta_title" validate:"max=255"`
	MetaDescription string `json:"meta_description" validate:"max=500"`
	Keywords        string `json:"keywords" validate:"max=500"`
	OGImageURL      string `json:"og_image_url" validate:"omitempty,url,max=500"`
	CanonicalURL    string `json:"canonical_url" validate:"omitempty,url,max=500"`
}

// PostInput creates a post. An empty slug is derived from the title.
type PostInput struct {
	Title         string            `json:"title" validate:"required,max=255"`
	Slug          string            `json:"slug" validate:"max=120"`
	Excerpt       string            `json:"excerpt" validate:"max=1000"`
	Content       string            `json:"content" validate:"required"`
	CoverImageURL string            `json:"cover_image_url" validate:"omitempty,url,max=500"`
	CategoryID    *uint             `json:"category_id"`
	Status        models.PostStatus `json:"status" validate:"omitempty,oneof=draft published"`
	Tags          []string          `json:"tags" validate:"max=20,dive,max=40"`
	SEO           *SEOInput         `json:"seo"`
}

// PostPatch is a partial update; nil fields are left unchanged.
type PostPatch struct {
	Title         *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Slug          *string            `json:"slug" validate:"omitempty,max=120"`
	Excerpt       *string            `json:"excerpt" validate:"omitempty,max=1000"`
	Content       *string            `json:"content" validate:"omitempty,min=1"`
	CoverImageURL *string            `json:"cover_image_url" validate:"omitempty,max=500"`
	CategoryID    *uint              `json:"category_id"`
	Status        *models.PostStatus `json:"status" validate:"omitempty,oneof=draft published"`
	Tags          *[]string          `json:"tags"`
	SEO           *SEOInput          `json:"seo"`
}

// CategoryInput creates a blog category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// BlogQuery filters the post list.
type BlogQuery struct {
	queryparams.ListParams
	Category string `query:"category"`
	Tag      string `query:"tag"`
	Status   string `query:"status"`
}

// IBlogService is the interface for blog posts and categories.
type IBlogService interface {
	List(ctx context.Context, actor Actor, q BlogQuery) (*queryparams.PaginatedResult, error)
	Create(ctx context.Context, actor Actor, in PostInput) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, actor Actor, slug string) (*models.BlogPost, error)
	Update(ctx context.Context, actor Actor, slug string, patch PostPatch) (*models.BlogPost, error)
	Delete(ctx context.Context, actor Actor, slug string) error
	ListCategories(ctx context.Context) ([]models.BlogCategory, error)
	CreateCategory(ctx context.Context, actor Actor, in CategoryInput) (*models.BlogCategory, error)
}

// BlogService implements IBlogService.
type BlogService struct {
	repo repositories.IBlogRepository
	tx   repositories.ITransactor
	now  func() time.Time
}

// NewBlogService creates a BlogService.
func NewBlogService(repo repositories.IBlogRepository, tx repositories.ITransactor) IBlogService {
	return &BlogService{repo: repo, tx: tx, now: func() time.Time { return time.Now().UTC() }}
}

// List shows published posts to everyone; admins may ask for drafts with
// status=draft or status=all.
func (s *BlogService) List(ctx context.Context, actor Actor, q BlogQuery) (*queryparams.PaginatedResult, error) {
	q.ListParams.Validate()
	filter := repositories.BlogFilter{
		Status:       models.PostStatusPublished,
		CategorySlug: strings.TrimSpace(q.Category),
		Tag:          strings.TrimSpace(q.Tag),
	}
	if actor.IsAdmin() {
		switch q.Status {
		case "all":
			filter.Status = ""
		case string(models.PostStatusDraft):
			filter.Status = models.PostStatusDraft
		}
	}
	posts, total, err := s.repo.FindPostsPaginated(ctx, filter, q.ListParams)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		hidePrivateUserFields(posts[i].Author)
	}
	return queryparams.NewPaginatedResult(posts, total, q.ListParams), nil
}

// uniqueSlug returns base, or base-2, base-3... whichever is free.
func (s *BlogService) uniqueSlug(ctx context.Context, base string, excludeID uint) (string, error) {
	if base == "" {
		base = fallbackPostSlug
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrSlugTaken
}

// explicitSlug validates a caller-chosen slug; it must be free as given.
func (s *BlogService) explicitSlug(ctx context.Context, raw string, excludeID uint) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !slugPattern.MatchString(value) {
		return "", ErrInvalidSlug
	}
	exists, err := s.repo.SlugExists(ctx, value, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrSlugTaken
	}
	return value, nil
}

func (s *BlogService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil || *id == 0 {
		return nil
	}
	if _, err := s.repo.FindCategoryByID(ctx, *id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// Create stores a post written by actor.
func (s *BlogService) Create(ctx context.Context, actor Actor, in PostInput) (*models.BlogPost, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.SEO != nil {
		if err := validation.Struct(*in.SEO); err != nil {
			return nil, err
		}
	}
	ctx = actor.Context(ctx)
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	var postSlug string
	var err error
	if strings.TrimSpace(in.Slug) != "" {
		postSlug, err = s.explicitSlug(ctx, in.Slug, 0)
	} else {
		postSlug, err = s.uniqueSlug(ctx, slug.Make(in.Title), 0)
	}
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		AuthorUserID:       actor.UserID,
		CategoryID:         normalizeCategoryID(in.CategoryID),
		Title:              in.Title,
		Slug:               postSlug,
		Excerpt:            strings.TrimSpace(in.Excerpt),
		Content:            in.Content,
		CoverImageURL:      strings.TrimSpace(in.CoverImageURL),
		Status:             models.PostStatusDraft,
		ReadingTimeMinutes: ReadingTime(in.Content),
		Tags:               joinList(in.Tags),
	}
	if post.Excerpt == "" {
		post.Excerpt = makeExcerpt(in.Content)
	}
	if in.Status != "" {
		post.Status = in.Status
	}
	if post.Status == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreatePost(ctx, post); err != nil {
			return err
		}
		if in.SEO != nil {
			post.SEO = seoFromInput(post.ID, *in.SEO)
			return s.repo.UpsertSEO(ctx, post.SEO)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		configslog.Log.Error("Blog post could not be created", zap.String("slug", postSlug), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPostSaveFailed, err)
	}
	configslog.SLog.Infof("Blog post '%s' created (%s)", post.Slug, post.Status)
	return post, nil
}

func normalizeCategoryID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

func seoFromInput(postID uint, in SEOInput) *models.BlogSEOData {
	return &models.BlogSEOData{
		PostID:          postID,
		MetaTitle:       strings.TrimSpace(in.MetaTitle),
		MetaDescription: strings.TrimSpace(in.MetaDescription),
		Keywords:        strings.TrimSpace(in.Keywords),
		OGImageURL:      strings.TrimSpace(in.OGImageURL),
		CanonicalURL:    strings.TrimSpace(in.CanonicalURL),
	}
}

func (s *BlogService) findBySlug(ctx context.Context, postSlug string) (*models.BlogPost, error) {
	post, err := s.repo.FindPostBySlug(ctx, strings.ToLower(strings.TrimSpace(postSlug)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// GetBySlug counts a view for every fetch of a published post. Drafts are
// only visible to admins and are never counted.
func (s *BlogService) GetBySlug(ctx context.Context, actor Actor, postSlug string) (*models.BlogPost, error) {
	post, err := s.findBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		if !actor.IsAdmin() {
			return nil, ErrPostNotFound
		}
		return post, nil
	}
	if err := s.repo.IncrementViewCount(ctx, post.ID); err != nil {
		configslog.Log.Warn("View count could not be incremented", zap.Uint("post_id", post.ID), zap.Error(err))
	} else {
		post.ViewCount++
	}
	hidePrivateUserFields(post.Author)
	return post, nil
}

// Update applies the non-nil fields of patch.
func (s *BlogService) Update(ctx context.Context, actor Actor, postSlug string, patch PostPatch) (*models.BlogPost, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	if patch.SEO != nil {
		if err := validation.Struct(*patch.SEO); err != nil {
			return nil, err
		}
	}
	ctx = actor.Context(ctx)
	post, err := s.findBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		post.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil && strings.TrimSpace(*patch.Slug) != post.Slug {
		if strings.TrimSpace(*patch.Slug) == "" {
			post.Slug, err = s.uniqueSlug(ctx, slug.Make(post.Title), post.ID)
		} else {
			post.Slug, err = s.explicitSlug(ctx, *patch.Slug, post.ID)
		}
		if err != nil {
			return nil, err
		}
	}
	if patch.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*patch.Excerpt)
	}
	if patch.Content != nil {
		post.Content = *patch.Content
		post.ReadingTimeMinutes = ReadingTime(post.Content)
		if patch.Excerpt == nil && post.Excerpt == "" {
			post.Excerpt = makeExcerpt(post.Content)
		}
	}
	if patch.CoverImageURL != nil {
		post.CoverImageURL = strings.TrimSpace(*patch.CoverImageURL)
	}
	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, patch.CategoryID); err != nil {
			return nil, err
		}
		post.CategoryID = normalizeCategoryID(patch.CategoryID)
		post.Category = nil
	}
	if patch.Tags != nil {
		post.Tags = joinList(*patch.Tags)
	}
	if patch.Status != nil {
		post.Status = *patch.Status
	}
	// First publication stamps published_at; unpublishing keeps it.
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdatePost(ctx, post); err != nil {
			return err
		}
		if patch.SEO != nil {
			post.SEO = seoFromInput(post.ID, *patch.SEO)
			return s.repo.UpsertSEO(ctx, post.SEO)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		configslog.Log.Error("Blog post could not be updated", zap.Uint("post_id", post.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPostSaveFailed, err)
	}
	return post, nil
}

// Delete soft deletes a post. Its slug stays reserved.
func (s *BlogService) Delete(ctx context.Context, actor Actor, postSlug string) error {
	post, err := s.findBySlug(ctx, postSlug)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDeletePost(actor.Context(ctx), post.ID, actor.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("%w: %v", ErrPostDeletionFailed, err)
	}
	configslog.SLog.Infof("Blog post '%s' deleted by user %d", post.Slug, actor.UserID)
	return nil
}

func (s *BlogService) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory slugs the name and rejects duplicates.
func (s *BlogService) CreateCategory(ctx context.Context, actor Actor, in CategoryInput) (*models.BlogCategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	categorySlug := slug.Make(in.Name)
	if categorySlug == "" {
		return nil, ErrInvalidSlug
	}
	exists, err := s.repo.CategorySlugExists(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}
	category := &models.BlogCategory{Name: in.Name, Slug: categorySlug, Description: strings.TrimSpace(in.Description)}
	if err := s.repo.CreateCategory(actor.Context(ctx), category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("%w: %v", ErrPostSaveFailed, err)
	}
	return category, nil
}

var _ IBlogService = (*BlogService)(nil)
