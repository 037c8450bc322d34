package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// NotificationFilter narrows notification listings to their owner.
type NotificationFilter struct {
	UserID     uuid.UUID
	CompanyID  *uuid.UUID
	UnreadOnly bool
	Offset     int
	Limit      int
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return translate("notification.create", GetDB(ctx, r.db).Create(n).Error)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	if err := GetDB(ctx, r.db).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate("notification.get", err)
	}
	return &n, nil
}

func (r *notificationRepository) List(ctx context.Context, filter NotificationFilter) ([]model.Notification, int64, error) {
	var rows []model.Notification
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Notification{}).Where("user_id = ?", filter.UserID)
	if filter.CompanyID != nil {
		q = q.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("notification.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, translate("notification.list", err)
	}
	return rows, total, nil
}

// MarkAsRead is idempotent: updating an already-read row changes nothing
// and is not an error. The user scope prevents cross-user mutation.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	res := GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return translate("notification.mark_read", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("notification.mark_read", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return translate("notification.mark_all_read",
		GetDB(ctx, r.db).Model(&model.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Update("is_read", true).Error)
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Notification{})
	if res.Error != nil {
		return translate("notification.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("notification.delete", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, translate("notification.count_unread", err)
	}
	return n, nil
}
