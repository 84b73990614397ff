package store

import (
	"errors"

	"github.com/sigo-dev/sigo/internal/models"
	"gorm.io/gorm"
)

const DefaultListLimit = 100

// UserStore owns CRUD access to user records. Email uniqueness is
// enforced here across all users, active or not.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

type CreateUserParams struct {
	Username       string
	Email          string
	PasswordHash   string
	BusinessArea   string
	ProfilePicture string
}

type UpdateUserParams struct {
	Username       *string
	Email          *string
	BusinessArea   *string
	ProfilePicture *string
	IsActive       *bool
	PasswordHash   *string
}

func (s *UserStore) Create(params CreateUserParams) (*models.User, error) {
	var existing models.User

	err := s.db.Where("email = ?", params.Email).First(&existing).Error

	if err == nil {
		return nil, ErrDuplicateEmail
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.User{
		Username:       params.Username,
		Email:          params.Email,
		PasswordHash:   params.PasswordHash,
		BusinessArea:   params.BusinessArea,
		ProfilePicture: params.ProfilePicture,
		IsActive:       true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) GetByID(id uint) (*models.User, error) {
	var user models.User

	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *UserStore) List(skip, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var users []models.User

	if err := s.db.Offset(skip).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *UserStore) Update(id uint, params UpdateUserParams) (*models.User, error) {
	user, err := s.GetByID(id)

	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if params.Username != nil {
		updates["username"] = *params.Username
	}

	if params.Email != nil && *params.Email != user.Email {
		var existing models.User

		err := s.db.Where("email = ? AND id != ?", *params.Email, user.ID).First(&existing).Error

		if err == nil {
			return nil, ErrDuplicateEmail
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		updates["email"] = *params.Email
	}

	if params.BusinessArea != nil {
		updates["business_area"] = *params.BusinessArea
	}

	if params.ProfilePicture != nil {
		updates["profile_picture"] = *params.ProfilePicture
	}

	if params.IsActive != nil {
		updates["is_active"] = *params.IsActive
	}

	if params.PasswordHash != nil {
		updates["password_hash"] = *params.PasswordHash
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// Delete deactivates the user. The row is retained, so repeated calls
// keep succeeding as long as the user exists.
func (s *UserStore) Delete(id uint) error {
	user, err := s.GetByID(id)

	if err != nil {
		return err
	}

	return s.db.Model(user).Update("is_active", false).Error
}
