package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-meet-signal/dto"
	"go-meet-signal/service"
	"go-meet-signal/utils"
)

type MeetingController struct {
	Controller
	meetingService service.MeetingService
}

func NewMeetingController(svc service.MeetingService) *MeetingController {
	return &MeetingController{meetingService: svc}
}

func (api *MeetingController) RootHandler(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, gin.H{"message": "Meeting signaling API"})
}

func (api *MeetingController) CreateMeetingHandler(c *gin.Context) {
	var input dto.MeetingCreate
	if !api.bindJSON(c, &input) {
		return
	}
	meeting, err := api.meetingService.Create(input)
	if err != nil {
		log.Println("CreateMeeting:", err)
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create meeting")
		return
	}
	utils.RespondJSON(c, http.StatusCreated, dto.NewMeetingResponse(meeting))
}

func (api *MeetingController) FindMeetingHandler(c *gin.Context) {
	meeting, err := api.meetingService.Get(c.Param("meetingId"))
	if err != nil {
		api.respondLookupError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, dto.NewMeetingResponse(meeting))
}

func (api *MeetingController) JoinMeetingHandler(c *gin.Context) {
	var input dto.MeetingJoin
	if !api.bindJSON(c, &input) {
		return
	}
	meeting, err := api.meetingService.Join(c.Param("meetingId"), input.ParticipantName)
	if err != nil {
		api.respondLookupError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, dto.JoinResponse{
		Message: "Joined successfully",
		Meeting: dto.NewMeetingResponse(meeting),
	})
}

func (api *MeetingController) respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrMeetingNotFound) {
		utils.RespondError(c, http.StatusNotFound, "Meeting not found")
		return
	}
	log.Println("Meeting lookup:", err)
	utils.RespondError(c, http.StatusInternalServerError, "Meeting lookup failed")
}
