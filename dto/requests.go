package dto

// MeetingCreate is the body of POST /api/meetings.
type MeetingCreate struct {
	HostName     string `json:"host_name" binding:"required"`
	MeetingTitle string `json:"meeting_title"`
}

// MeetingJoin is the body of POST /api/meetings/:meetingId/join.
type MeetingJoin struct {
	MeetingID       string `json:"meeting_id"`
	ParticipantName string `json:"participant_name" binding:"required"`
}

type StatusCheckCreate struct {
	ClientName string `json:"client_name" binding:"required"`
}
