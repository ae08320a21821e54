package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"go-meet-signal/dto"
	"go-meet-signal/models"
	"go-meet-signal/repo"
)

const statusListLimit = 1000

type StatusService interface {
	Create(req dto.StatusCheckCreate) (*models.StatusCheck, error)
	FindAll() ([]models.StatusCheck, error)
}

// statusService implement interface StatusService with some dependencies
type statusService struct {
	statusRepo repo.StatusRepo
}

func (s *statusService) Create(req dto.StatusCheckCreate) (*models.StatusCheck, error) {
	check := &models.StatusCheck{
		ID:         uuid.New().String(),
		ClientName: strings.TrimSpace(req.ClientName),
		Timestamp:  time.Now().UTC(),
	}
	if err := s.statusRepo.Create(check); err != nil {
		return nil, err
	}
	return check, nil
}

func (s *statusService) FindAll() ([]models.StatusCheck, error) {
	return s.statusRepo.FindAll(statusListLimit)
}

func NewStatusService(repo repo.StatusRepo) StatusService {
	return &statusService{statusRepo: repo}
}
