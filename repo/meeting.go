package repo

import (
	"errors"

	"github.com/jinzhu/gorm"

	"go-meet-signal/models"
)

var ErrNotFound = errors.New("record not found")

// MeetingRepo interface for public function
type MeetingRepo interface {
	Create(meeting *models.Meeting) error
	FindByCode(code string) (*models.Meeting, error)
	AddParticipant(meeting *models.Meeting, name string) error
}

// meetingRepo implement interface MeetingRepo
type meetingRepo struct {
	db *gorm.DB
}

func (r *meetingRepo) Create(meeting *models.Meeting) error {
	return r.db.Create(meeting).Error
}

func (r *meetingRepo) FindByCode(code string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := r.db.
		Preload("Participants", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("code = ?", code).
		First(&meeting).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepo) AddParticipant(meeting *models.Meeting, name string) error {
	p := models.Participant{MeetingID: meeting.ID, Name: name}
	if err := r.db.Create(&p).Error; err != nil {
		return err
	}
	meeting.Participants = append(meeting.Participants, p)
	return nil
}

// NewMeetingRepository dependency injection
func NewMeetingRepository(db *gorm.DB) MeetingRepo {
	return &meetingRepo{db: db}
}
