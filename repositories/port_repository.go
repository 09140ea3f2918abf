package repositories

import (
	"context"
	"strings"

	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PortFilter narrows a port search.
type PortFilter struct {
	Country string
}

// IPortRepository is the interface for the ports reference table.
type IPortRepository interface {
	FindByLocode(ctx context.Context, locode string) (*models.Port, error)
	Search(ctx context.Context, filter PortFilter, params queryparams.ListParams) ([]models.Port, int64, error)
	CountAll(ctx context.Context) (int64, error)
}

// PortRepository implements IPortRepository with GORM.
type PortRepository struct {
	db *gorm.DB
}

// NewPortRepository creates a PortRepository.
func NewPortRepository(db *gorm.DB) *PortRepository {
	return &PortRepository{db: db}
}

func (r *PortRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// FindByLocode upper-cases locode before the lookup.
func (r *PortRepository) FindByLocode(ctx context.Context, locode string) (*models.Port, error) {
	var port models.Port
	err := r.getDB(ctx).Where("unlocode = ?", strings.ToUpper(strings.TrimSpace(locode))).First(&port).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &port, nil
}

// Search matches the query against name, ASCII name and code prefix. Exact
// code hits sort first.
func (r *PortRepository) Search(ctx context.Context, filter PortFilter, params queryparams.ListParams) ([]models.Port, int64, error) {
	query := r.getDB(ctx).Model(&models.Port{})
	if filter.Country != "" {
		query = query.Where("country_code = ?", strings.ToUpper(filter.Country))
	}
	var order interface{} = "name asc"
	if q := strings.TrimSpace(params.Search); q != "" {
		pattern := likePattern(strings.ToLower(q))
		prefix := strings.ToUpper(strings.NewReplacer(`%`, ``, `_`, ``, ` `, ``).Replace(q)) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(name_ascii) LIKE ? OR unlocode LIKE ?)", pattern, pattern, prefix)
		order = clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN unlocode = ? THEN 0 ELSE 1 END, name asc",
			Vars:               []interface{}{strings.ToUpper(q)},
			WithoutParentheses: true,
		}}
	}
	var ports []models.Port
	total, err := paginate(query, params.CalculateOffset(), params.Limit, order, &ports)
	return ports, total, err
}

func (r *PortRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Port{}).Count(&count).Error
	return count, translateError(err)
}

var _ IPortRepository = (*PortRepository)(nil)
