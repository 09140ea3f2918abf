package repositories

import (
	"context"
	"errors"
	"strings"

	"marinehub.app/pkg/queryparams"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type txKey struct{}

// ContextWithTx makes repositories called with the returned ctx use tx.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// translateError maps driver/gorm errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return ErrDuplicate
	}
	return err
}

// ITransactor runs fn inside one database transaction. Repositories called
// with the ctx passed to fn join the transaction.
type ITransactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Transactor implements ITransactor with gorm transactions.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor.
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFromContext(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTx(ctx, tx))
	})
}

// IBaseRepository covers the CRUD every table needs.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, entity *T) error
	UpdateColumns(ctx context.Context, id uint, data map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint, deletedByUserID uint) error
	Count(ctx context.Context, where string, args ...interface{}) (int64, error)
}

// BaseRepository is a generic GORM implementation of IBaseRepository.
type BaseRepository[T any] struct {
	db *gorm.DB
}

// NewBaseRepository creates a BaseRepository for T.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

func (r *BaseRepository[T]) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("cannot create a nil entity")
	}
	return translateError(r.getDB(ctx).Omit(clause.Associations).Create(entity).Error)
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var entity T
	if err := r.getDB(ctx).First(&entity, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// Save writes every column of entity, skipping associations.
func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("cannot save a nil entity")
	}
	return translateError(r.getDB(ctx).Omit(clause.Associations).Save(entity).Error)
}

// UpdateColumns applies data to one row; a missing row is ErrNotFound.
func (r *BaseRepository[T]) UpdateColumns(ctx context.Context, id uint, data map[string]interface{}) error {
	if id == 0 || len(data) == 0 {
		return errors.New("update needs an id and at least one column")
	}
	var model T
	result := r.getDB(ctx).Model(&model).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete stamps deleted_at and deleted_by in one statement.
func (r *BaseRepository[T]) SoftDelete(ctx context.Context, id uint, deletedByUserID uint) error {
	if id == 0 {
		return ErrNotFound
	}
	var model T
	updateData := map[string]interface{}{"deleted_at": gorm.Expr("NOW()")}
	if deletedByUserID != 0 {
		updateData["deleted_by"] = deletedByUserID
	}
	result := r.getDB(ctx).Model(&model).Where("id = ? AND deleted_at IS NULL", id).UpdateColumns(updateData)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BaseRepository[T]) Count(ctx context.Context, where string, args ...interface{}) (int64, error) {
	var model T
	var count int64
	query := r.getDB(ctx).Model(&model)
	if where != "" {
		query = query.Where(where, args...)
	}
	err := query.Count(&count).Error
	return count, translateError(err)
}

// paginate runs count + page fetch on an already filtered query.
// order is a raw column list or a clause.OrderBy. Preloads are applied
// after counting since GORM refuses Count with preloads.
func paginate[T any](query *gorm.DB, offset, limit int, order interface{}, out *[]T, preloads ...string) (int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	if total == 0 {
		*out = []T{}
		return 0, nil
	}
	for _, association := range preloads {
		query = query.Preload(association)
	}
	if err := query.Order(order).Limit(limit).Offset(offset).Find(out).Error; err != nil {
		return total, translateError(err)
	}
	return total, nil
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// likePattern is a contains match on escaped user input.
func likePattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

func lockingForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

func direction(params queryparams.ListParams) string {
	if params.OrderBy == "asc" {
		return "asc"
	}
	return "desc"
}
