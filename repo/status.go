package repo

import (
	"github.com/jinzhu/gorm"

	"go-meet-signal/models"
)

type StatusRepo interface {
	Create(check *models.StatusCheck) error
	FindAll(limit int) ([]models.StatusCheck, error)
}

type statusRepo struct {
	db *gorm.DB
}

func (r *statusRepo) Create(check *models.StatusCheck) error {
	return r.db.Create(check).Error
}

func (r *statusRepo) FindAll(limit int) ([]models.StatusCheck, error) {
	checks := []models.StatusCheck{}
	if err := r.db.Order("checked_at asc").Limit(limit).Find(&checks).Error; err != nil {
		return nil, err
	}
	return checks, nil
}

func NewStatusRepository(db *gorm.DB) StatusRepo {
	return &statusRepo{db: db}
}
