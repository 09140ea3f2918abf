package repositories

import (
	"context"
	"strings"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sitemapMaxRows caps each dynamic sitemap section (protocol limit 50k URLs).
const sitemapMaxRows = 20000

// BlogFilter narrows a post listing. Empty fields do not filter.
type BlogFilter struct {
	Status       models.PostStatus
	CategorySlug string
	Tag          string
}

// IBlogRepository is the interface for blog post and category persistence.
type IBlogRepository interface {
	CreatePost(ctx context.Context, post *models.BlogPost) error
	UpdatePost(ctx context.Context, post *models.BlogPost) error
	FindPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	SoftDeletePost(ctx context.Context, id uint, deletedByUserID uint) error
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	FindPostsPaginated(ctx context.Context, filter BlogFilter, params queryparams.ListParams) ([]models.BlogPost, int64, error)
	IncrementViewCount(ctx context.Context, id uint) error
	UpsertSEO(ctx context.Context, seo *models.BlogSEOData) error
	CountByStatus(ctx context.Context, status models.PostStatus) (int64, error)
	ListPublishedForSitemap(ctx context.Context) ([]models.BlogPost, error)

	ListCategories(ctx context.Context) ([]models.BlogCategory, error)
	CreateCategory(ctx context.Context, category *models.BlogCategory) error
	FindCategoryByID(ctx context.Context, id uint) (*models.BlogCategory, error)
	CategorySlugExists(ctx context.Context, slug string) (bool, error)
}

// BlogRepository implements IBlogRepository with GORM.
type BlogRepository struct {
	posts      *BaseRepository[models.BlogPost]
	categories *BaseRepository[models.BlogCategory]
	db         *gorm.DB
}

// NewBlogRepository creates a BlogRepository.
func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{
		posts:      NewBaseRepository[models.BlogPost](db),
		categories: NewBaseRepository[models.BlogCategory](db),
		db:         db,
	}
}

func (r *BlogRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *BlogRepository) CreatePost(ctx context.Context, post *models.BlogPost) error {
	return r.posts.Create(ctx, post)
}

// UpdatePost writes the editable columns only. view_count is owned by
// IncrementViewCount and never rewritten here.
func (r *BlogRepository) UpdatePost(ctx context.Context, post *models.BlogPost) error {
	return r.posts.UpdateColumns(ctx, post.ID, postColumns(post))
}

func postColumns(post *models.BlogPost) map[string]interface{} {
	return map[string]interface{}{
		"title":                post.Title,
		"slug":                 post.Slug,
		"excerpt":              post.Excerpt,
		"content":              post.Content,
		"cover_image_url":      post.CoverImageURL,
		"category_id":          post.CategoryID,
		"tags":                 post.Tags,
		"status":               post.Status,
		"published_at":         post.PublishedAt,
		"reading_time_minutes": post.ReadingTimeMinutes,
	}
}

// FindPostBySlug preloads the author, category and SEO row.
func (r *BlogRepository) FindPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.getDB(ctx).Preload("Author").Preload("Category").Preload("SEO").
		Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

func (r *BlogRepository) SoftDeletePost(ctx context.Context, id uint, deletedByUserID uint) error {
	return r.posts.SoftDelete(ctx, id, deletedByUserID)
}

// SlugExists also sees soft-deleted rows since the unique index does.
func (r *BlogRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.getDB(ctx).Unscoped().Model(&models.BlogPost{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func applyBlogFilters(query *gorm.DB, filter BlogFilter, search string) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("blog_posts.status = ?", filter.Status)
	}
	if filter.CategorySlug != "" {
		query = query.Where("blog_posts.category_id IN (?)",
			query.Session(&gorm.Session{NewDB: true}).Model(&models.BlogCategory{}).Select("id").Where("slug = ?", filter.CategorySlug))
	}
	if filter.Tag != "" {
		// Tags are stored as "a,b,c"; wrap both sides in commas for an exact match.
		query = query.Where("(',' || LOWER(REPLACE(blog_posts.tags, ' ', '')) || ',') LIKE ?",
			"%,"+escapeLike(strings.ToLower(strings.ReplaceAll(filter.Tag, " ", "")))+",%")
	}
	if search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.Where("(LOWER(blog_posts.title) LIKE ? OR LOWER(blog_posts.excerpt) LIKE ?)", pattern, pattern)
	}
	return query
}

// FindPostsPaginated lists newest first; published listings sort by publish date.
func (r *BlogRepository) FindPostsPaginated(ctx context.Context, filter BlogFilter, params queryparams.ListParams) ([]models.BlogPost, int64, error) {
	query := applyBlogFilters(r.getDB(ctx).Model(&models.BlogPost{}), filter, params.Search)
	order := "blog_posts.created_at desc"
	if filter.Status == models.PostStatusPublished {
		order = "blog_posts.published_at desc, blog_posts.id desc"
	}
	var posts []models.BlogPost
	total, err := paginate(query, params.CalculateOffset(), params.Limit, order, &posts, "Author", "Category")
	if err != nil {
		configslog.Log.Error("BlogRepository.FindPostsPaginated: DB error", zap.Any("filter", filter), zap.Error(err))
		return nil, 0, err
	}
	return posts, total, nil
}

// IncrementViewCount is a single atomic UPDATE so concurrent reads never lose counts.
func (r *BlogRepository) IncrementViewCount(ctx context.Context, id uint) error {
	err := r.getDB(ctx).Model(&models.BlogPost{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	return translateError(err)
}

// UpsertSEO writes the one SEO row a post may have.
func (r *BlogRepository) UpsertSEO(ctx context.Context, seo *models.BlogSEOData) error {
	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"meta_title", "meta_description", "keywords", "og_image_url", "canonical_url", "updated_at", "updated_by", "deleted_at",
		}),
	}).Create(seo).Error
	return translateError(err)
}

func (r *BlogRepository) CountByStatus(ctx context.Context, status models.PostStatus) (int64, error) {
	return r.posts.Count(ctx, "status = ?", status)
}

// ListPublishedForSitemap returns slugs and timestamps of published posts.
func (r *BlogRepository) ListPublishedForSitemap(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	err := r.getDB(ctx).Select("id", "slug", "updated_at", "published_at").
		Where("status = ?", models.PostStatusPublished).
		Order("published_at desc").Limit(sitemapMaxRows).
		Find(&posts).Error
	return posts, translateError(err)
}

func (r *BlogRepository) ListCategories(ctx context.Context) ([]models.BlogCategory, error) {
	var categories []models.BlogCategory
	err := r.getDB(ctx).Order("name asc").Find(&categories).Error
	return categories, translateError(err)
}

func (r *BlogRepository) CreateCategory(ctx context.Context, category *models.BlogCategory) error {
	return r.categories.Create(ctx, category)
}

func (r *BlogRepository) FindCategoryByID(ctx context.Context, id uint) (*models.BlogCategory, error) {
	return r.categories.FindByID(ctx, id)
}

// CategorySlugExists reports whether a category already uses slug.
func (r *BlogRepository) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Unscoped().Model(&models.BlogCategory{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, translateError(err)
}

var _ IBlogRepository = (*BlogRepository)(nil)
