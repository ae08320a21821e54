package service

import (
	"context"

	"github.com/pion/webrtc/v4"

	"go-meet-signal/dto"
	"go-meet-signal/signaling"
)

// SignalingService connects participant sockets to the signaling router and
// hands browsers the ICE servers they need for their peer connections.
type SignalingService interface {
	Admit(ctx context.Context, info dto.PeerInfo) error
	Serve(ctx context.Context, info dto.PeerInfo, conn signaling.Transport) error
	IceServers() []webrtc.ICEServer
	Stats() dto.SignalingStats
	Shutdown()
}

type signalingService struct {
	router    *signaling.Router
	iceConfig *webrtc.Configuration
}

// Admit and Serve key rooms by the normalized meeting code, the same form the
// meeting directory validates, so /ws/abcd1234 and /ws/ABCD1234 share a room.
func (s *signalingService) Admit(ctx context.Context, info dto.PeerInfo) error {
	return s.router.Admit(ctx, NormalizeCode(info.MeetingID))
}

func (s *signalingService) Serve(ctx context.Context, info dto.PeerInfo, conn signaling.Transport) error {
	return s.router.Serve(ctx, NormalizeCode(info.MeetingID), info.UserId, conn)
}

func (s *signalingService) IceServers() []webrtc.ICEServer {
	if s.iceConfig == nil {
		return []webrtc.ICEServer{}
	}
	return append([]webrtc.ICEServer{}, s.iceConfig.ICEServers...)
}

func (s *signalingService) Stats() dto.SignalingStats {
	reg := s.router.Registry()
	return dto.SignalingStats{
		Status:       "ok",
		Rooms:        reg.Rooms(),
		Participants: reg.Participants(),
	}
}

func (s *signalingService) Shutdown() {
	s.router.Shutdown()
}

func NewSignalingService(router *signaling.Router, iceConfig *webrtc.Configuration) SignalingService {
	return &signalingService{router: router, iceConfig: iceConfig}
}
