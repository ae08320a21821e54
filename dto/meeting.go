package dto

import (
	"time"

	"go-meet-signal/models"
)

type MeetingResponse struct {
	ID           string    `json:"id"`
	MeetingID    string    `json:"meeting_id"`
	HostName     string    `json:"host_name"`
	MeetingTitle string    `json:"meeting_title"`
	CreatedAt    time.Time `json:"created_at"`
	Participants []string  `json:"participants"`
	IsActive     bool      `json:"is_active"`
}

func NewMeetingResponse(m *models.Meeting) MeetingResponse {
	return MeetingResponse{
		ID:           m.ID,
		MeetingID:    m.Code,
		HostName:     m.HostName,
		MeetingTitle: m.Title,
		CreatedAt:    m.CreatedAt,
		Participants: m.ParticipantNames(),
		IsActive:     m.IsActive,
	}
}

type JoinResponse struct {
	Message string          `json:"message"`
	Meeting MeetingResponse `json:"meeting"`
}
