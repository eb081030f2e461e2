package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tourcatalog/internal/model"
)

// UserRepository defines user persistence operations, including the
// password-reset ticket stored on the user row.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetActive(ctx context.Context, id uint, active bool) error

	// SetResetTicket overwrites the user's reset ticket. Any earlier ticket is
	// replaced by this single write.
	SetResetTicket(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time) error
	// FindByResetTicket returns the active user whose email and ticket hash
	// match and whose ticket expires after now.
	FindByResetTicket(ctx context.Context, email, tokenHash string, now time.Time) (*model.User, error)
	// ConsumeResetTicket sets the new password hash and clears the ticket in one
	// conditional UPDATE guarded by the same four conditions as
	// FindByResetTicket. It reports whether a row was changed.
	ConsumeResetTicket(ctx context.Context, email, tokenHash string, now time.Time, passwordHash string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) SetResetTicket(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token_hash":       tokenHash,
			"reset_token_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindByResetTicket(ctx context.Context, email, tokenHash string, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Scopes(activeResetTicket(email, tokenHash, now)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ConsumeResetTicket(ctx context.Context, email, tokenHash string, now time.Time, passwordHash string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Scopes(activeResetTicket(email, tokenHash, now)).
		Updates(map[string]interface{}{
			"password_hash":          passwordHash,
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// activeResetTicket matches a user holding the given unexpired ticket.
func activeResetTicket(email, tokenHash string, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("email = ?", email).
			Where("reset_token_hash = ?", tokenHash).
			Where("reset_token_expires_at > ?", now).
			Where("is_active = ?", true)
	}
}
