package store

import (
	"errors"
	"time"

	"github.com/sigo-dev/sigo/internal/models"
	"gorm.io/gorm"
)

// GroupStore owns CRUD access to groups and the user/group membership
// junction. Membership mutations check existence explicitly so the
// (user, group) pair stays unique.
type GroupStore struct {
	db *gorm.DB
}

func NewGroupStore(db *gorm.DB) *GroupStore {
	return &GroupStore{db: db}
}

type CreateGroupParams struct {
	Name            string
	Description     string
	BackgroundImage string
}

type UpdateGroupParams struct {
	Name            *string
	Description     *string
	BackgroundImage *string
}

func (s *GroupStore) Create(params CreateGroupParams) (*models.Group, error) {
	var existing models.Group

	err := s.db.Where("name = ?", params.Name).First(&existing).Error

	if err == nil {
		return nil, ErrDuplicateName
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	group := models.Group{
		Name:            params.Name,
		Description:     params.Description,
		BackgroundImage: params.BackgroundImage,
	}

	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

// GetByID loads a group together with its member users.
func (s *GroupStore) GetByID(id uint) (*models.Group, error) {
	var group models.Group

	err := s.db.Preload("Memberships.User").First(&group, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	return &group, nil
}

func (s *GroupStore) GetByName(name string) (*models.Group, error) {
	var group models.Group

	err := s.db.Where("name = ?", name).First(&group).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	return &group, nil
}

func (s *GroupStore) List(skip, limit int) ([]models.Group, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var groups []models.Group

	if err := s.db.Offset(skip).Limit(limit).Find(&groups).Error; err != nil {
		return nil, err
	}

	return groups, nil
}

func (s *GroupStore) Update(id uint, params UpdateGroupParams) (*models.Group, error) {
	var group models.Group

	if err := s.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})

	if params.Name != nil && *params.Name != group.Name {
		var existing models.Group

		err := s.db.Where("name = ? AND id != ?", *params.Name, group.ID).First(&existing).Error

		if err == nil {
			return nil, ErrDuplicateName
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		updates["name"] = *params.Name
	}

	if params.Description != nil {
		updates["description"] = *params.Description
	}

	if params.BackgroundImage != nil {
		updates["background_image"] = *params.BackgroundImage
	}

	if len(updates) > 0 {
		if err := s.db.Model(&group).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// Delete removes the group, its membership rows and detaches any
// dashboards pointing at it, all in one transaction.
func (s *GroupStore) Delete(id uint) error {
	var group models.Group

	if err := s.db.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", group.ID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}

		err := tx.Model(&models.Dashboard{}).
			Where("group_id = ?", group.ID).
			Update("group_id", nil).Error

		if err != nil {
			return err
		}

		return tx.Delete(&group).Error
	})
}

func (s *GroupStore) AddUser(groupID, userID uint) error {
	if err := s.db.First(&models.Group{}, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	if err := s.db.First(&models.User{}, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var existing models.Membership

	err := s.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&existing).Error

	if err == nil {
		return ErrAlreadyMember
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	membership := models.Membership{
		UserID:   userID,
		GroupID:  groupID,
		JoinedAt: time.Now(),
	}

	return s.db.Create(&membership).Error
}

func (s *GroupStore) RemoveUser(groupID, userID uint) error {
	if err := s.db.First(&models.Group{}, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	if err := s.db.First(&models.User{}, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var membership models.Membership

	err := s.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotMember
		}
		return err
	}

	return s.db.Delete(&membership).Error
}

// GroupsForUser returns every group the user belongs to.
func (s *GroupStore) GroupsForUser(userID uint) ([]models.Group, error) {
	if err := s.db.First(&models.User{}, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var groups []models.Group

	err := s.db.
		Joins("JOIN memberships ON memberships.group_id = groups.id").
		Where("memberships.user_id = ?", userID).
		Find(&groups).Error

	if err != nil {
		return nil, err
	}

	return groups, nil
}
