package repositories

import (
	"context"
	"time"

	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"

	"gorm.io/gorm"
)

// INotificationRepository is the interface for notification persistence.
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	FindByUserPaginated(ctx context.Context, userID uint, unreadOnly bool, params queryparams.ListParams) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, id uint, at time.Time) error
	MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error)
}

// NotificationRepository implements INotificationRepository with GORM.
type NotificationRepository struct {
	*BaseRepository[models.Notification]
}

// NewNotificationRepository creates a NotificationRepository.
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{BaseRepository: NewBaseRepository[models.Notification](db)}
}

func (r *NotificationRepository) FindByUserPaginated(ctx context.Context, userID uint, unreadOnly bool, params queryparams.ListParams) ([]models.Notification, int64, error) {
	query := r.getDB(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	var notifications []models.Notification
	total, err := paginate(query, params.CalculateOffset(), params.Limit, "created_at desc, id desc", &notifications)
	return notifications, total, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return r.Count(ctx, "user_id = ? AND read_at IS NULL", userID)
}

// MarkRead is scoped to the owner; someone else's id is ErrNotFound.
// Marking an already read notification is a no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id uint, at time.Time) error {
	var notification models.Notification
	err := r.getDB(ctx).Select("id", "read_at").Where("id = ? AND user_id = ?", id, userID).First(&notification).Error
	if err != nil {
		return translateError(err)
	}
	if notification.ReadAt != nil {
		return nil
	}
	err = r.getDB(ctx).Model(&models.Notification{}).Where("id = ?", id).UpdateColumn("read_at", at).Error
	return translateError(err)
}

// MarkAllRead stamps read_at on every unread row of userID and returns how
// many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error) {
	result := r.getDB(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		UpdateColumn("read_at", at)
	return result.RowsAffected, translateError(result.Error)
}

var _ INotificationRepository = (*NotificationRepository)(nil)
