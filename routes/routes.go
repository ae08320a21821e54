package routes

import (
	"github.com/gin-gonic/gin"

	"go-meet-signal/config"
	api "go-meet-signal/controllers"
	"go-meet-signal/metrics"
	"go-meet-signal/middlewares"
)

func NewRoute(meetingApi *api.MeetingController, statusApi *api.StatusController, rtcApi *api.WebRtcController, m *metrics.Metrics) *gin.Engine {
	// gin.Default already installs the request logger and panic recovery
	r := gin.Default()

	// Register the IPLogger middleware
	r.Use(middlewares.IPLogger())
	// cors bypass
	r.Use(config.CorsMiddleware())

	r.GET("/health", rtcApi.HealthHandler)
	r.GET("/metrics", gin.WrapH(metrics.PrometheusHandler(m)))

	rest := r.Group("/api")
	rest.GET("/", meetingApi.RootHandler)
	rest.POST("/meetings", meetingApi.CreateMeetingHandler)
	rest.GET("/meetings/:meetingId", meetingApi.FindMeetingHandler)
	rest.POST("/meetings/:meetingId/join", meetingApi.JoinMeetingHandler)
	rest.POST("/status", statusApi.CreateStatusHandler)
	rest.GET("/status", statusApi.FindStatusHandler)
	rest.GET("/ice-servers", rtcApi.IceServersHandler)

	// Signaling socket, one per participant session
	r.GET("/ws/:meetingId/:userId", rtcApi.WebSocketConnectHandler)
	return r
}
