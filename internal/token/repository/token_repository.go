package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	tokendomain "friendlychat-backend/internal/token/domain"
)

// TokenRepository defines the interface for device token operations
type TokenRepository interface {
	SaveToken(token, deviceInfo string) error
	ListAll() ([]tokendomain.DeviceToken, error)
	DeleteToken(token string) error
}

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new instance of tokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

// SaveToken saves or updates a device token (atomic upsert)
func (r *tokenRepository) SaveToken(token, deviceInfo string) error {
	deviceToken := &tokendomain.DeviceToken{
		ID:         uuid.New().String(),
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// Atomic upsert: INSERT ... ON CONFLICT (token) DO UPDATE
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_info", "updated_at"}),
	}).Create(deviceToken).Error
}

// ListAll returns a snapshot of every registered device token
func (r *tokenRepository) ListAll() ([]tokendomain.DeviceToken, error) {
	var tokens []tokendomain.DeviceToken
	err := r.db.Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteToken removes a specific device token
func (r *tokenRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&tokendomain.DeviceToken{}).Error
}
