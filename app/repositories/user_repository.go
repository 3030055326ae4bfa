package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/neubistro/bistro/app/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u. A taken email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate("find user by email", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate("find user", err)
	}
	return &u, nil
}
