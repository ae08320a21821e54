package dto

import "github.com/pion/webrtc/v4"

// PeerInfo identifies one signaling connection.
type PeerInfo struct {
	MeetingID string `json:"meetingId"`
	UserId    string `json:"userId"`
}

type IceServersResponse struct {
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

type SignalingStats struct {
	Status       string `json:"status"`
	Rooms        int    `json:"rooms"`
	Participants int    `json:"participants"`
}
