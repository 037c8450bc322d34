package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// TokenRepository persists refresh tokens and the access-token blacklist.
type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, id uuid.UUID) error
	DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error

	RevokeToken(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return translate("token.create_refresh", GetDB(ctx, r.db).Create(token).Error)
}

func (r *tokenRepository) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var row model.RefreshToken
	if err := GetDB(ctx, r.db).First(&row, "token = ?", token).Error; err != nil {
		return nil, translate("token.get_refresh", err)
	}
	return &row, nil
}

func (r *tokenRepository) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	return translate("token.delete_refresh",
		GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.RefreshToken{}).Error)
}

func (r *tokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return translate("token.delete_user_refresh",
		GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error)
}

// RevokeToken inserts into the blacklist; a duplicate insert is treated as
// already revoked, not as a failure.
func (r *tokenRepository) RevokeToken(ctx context.Context, tokenID string, userID uuid.UUID, expiresAt time.Time) error {
	row := model.RevokedToken{TokenID: tokenID, UserID: userID, ExpiresAt: expiresAt}
	err := GetDB(ctx, r.db).Create(&row).Error
	if err != nil && IsConflict(translate("token.revoke", err)) {
		return nil
	}
	return translate("token.revoke", err)
}

func (r *tokenRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.RevokedToken{}).Where("token_id = ?", tokenID).Count(&count).Error
	if err != nil {
		return false, translate("token.is_revoked", err)
	}
	return count > 0, nil
}

// PurgeExpired removes blacklist rows whose tokens have expired anyway, plus
// expired refresh tokens. Safe to run periodically.
func (r *tokenRepository) PurgeExpired(ctx context.Context, now time.Time) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("expires_at < ?", now).Delete(&model.RevokedToken{}).Error; err != nil {
		return translate("token.purge_revoked", err)
	}
	return translate("token.purge_refresh",
		db.Where("expires_at < ?", now).Delete(&model.RefreshToken{}).Error)
}
