package models

import "time"

// Meeting is a persisted meeting record. Code is the short id participants
// type in and the id used for signaling rooms.
type Meeting struct {
	ID           string        `gorm:"primary_key" json:"id"`
	Code         string        `gorm:"unique_index;not null" json:"meeting_id"`
	HostName     string        `json:"host_name"`
	Title        string        `json:"meeting_title"`
	CreatedAt    time.Time     `json:"created_at"`
	IsActive     bool          `json:"is_active"`
	Participants []Participant `json:"-"`
}

// Participant is a name that joined a meeting through the REST API.
type Participant struct {
	ID        uint   `gorm:"primary_key" json:"-"`
	MeetingID string `gorm:"index" json:"-"`
	Name      string `json:"name"`
}

// ParticipantNames returns participant names in join order.
func (m *Meeting) ParticipantNames() []string {
	names := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		names = append(names, p.Name)
	}
	return names
}

func (m *Meeting) HasParticipant(name string) bool {
	for _, p := range m.Participants {
		if p.Name == name {
			return true
		}
	}
	return false
}
