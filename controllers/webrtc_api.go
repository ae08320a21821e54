package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-meet-signal/dto"
	"go-meet-signal/service"
	"go-meet-signal/signaling"
	"go-meet-signal/utils"
)

type WebRtcController struct {
	Controller
	signalingService service.SignalingService
	upgrader         *websocket.Upgrader
	maxMessageBytes  int64
}

func NewWebRtcController(svc service.SignalingService, upgrader *websocket.Upgrader, maxMessageBytes int64) *WebRtcController {
	return &WebRtcController{
		signalingService: svc,
		upgrader:         upgrader,
		maxMessageBytes:  maxMessageBytes,
	}
}

// WebSocketConnectHandler upgrades /ws/:meetingId/:userId and keeps the
// request open until the participant disconnects.
func (c *WebRtcController) WebSocketConnectHandler(ctx *gin.Context) {
	info := dto.PeerInfo{
		MeetingID: ctx.Param("meetingId"),
		UserId:    ctx.Param("userId"),
	}

	if err := c.signalingService.Admit(ctx.Request.Context(), info); err != nil {
		if errors.Is(err, signaling.ErrUnknownMeeting) {
			utils.RespondError(ctx, http.StatusNotFound, "Meeting not found")
			return
		}
		log.Println("Admit:", err)
		utils.RespondError(ctx, http.StatusInternalServerError, "Meeting lookup failed")
		return
	}

	// Upgrade the HTTP connection to a WebSocket connection
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Println("Failed to upgrade connection to WebSocket:", err)
		return
	}
	if c.maxMessageBytes > 0 {
		conn.SetReadLimit(c.maxMessageBytes)
	}

	if err := c.signalingService.Serve(ctx.Request.Context(), info, conn); err != nil {
		log.Printf("Signaling session %s/%s ended: %v", info.MeetingID, info.UserId, err)
	}
}

func (c *WebRtcController) IceServersHandler(ctx *gin.Context) {
	utils.RespondJSON(ctx, http.StatusOK, dto.IceServersResponse{ICEServers: c.signalingService.IceServers()})
}

func (c *WebRtcController) HealthHandler(ctx *gin.Context) {
	utils.RespondJSON(ctx, http.StatusOK, c.signalingService.Stats())
}
