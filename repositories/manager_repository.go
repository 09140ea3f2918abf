package repositories

import (
	"context"

	"marinehub.app/models"

	"gorm.io/gorm"
)

// IManagerRepository is the interface for manager profile persistence.
type IManagerRepository interface {
	Create(ctx context.Context, profile *models.ManagerProfile) error
	FindByUserID(ctx context.Context, userID uint) (*models.ManagerProfile, error)
	Save(ctx context.Context, profile *models.ManagerProfile) error
}

// ManagerRepository implements IManagerRepository with GORM.
type ManagerRepository struct {
	*BaseRepository[models.ManagerProfile]
}

// NewManagerRepository creates a ManagerRepository.
func NewManagerRepository(db *gorm.DB) *ManagerRepository {
	return &ManagerRepository{BaseRepository: NewBaseRepository[models.ManagerProfile](db)}
}

func (r *ManagerRepository) FindByUserID(ctx context.Context, userID uint) (*models.ManagerProfile, error) {
	var profile models.ManagerProfile
	if err := r.getDB(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

var _ IManagerRepository = (*ManagerRepository)(nil)
