package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-meet-signal/dto"
	"go-meet-signal/service"
	"go-meet-signal/utils"
)

type StatusController struct {
	Controller
	statusService service.StatusService
}

func NewStatusController(svc service.StatusService) *StatusController {
	return &StatusController{statusService: svc}
}

func (api *StatusController) CreateStatusHandler(c *gin.Context) {
	var input dto.StatusCheckCreate
	if !api.bindJSON(c, &input) {
		return
	}
	check, err := api.statusService.Create(input)
	if err != nil {
		log.Println("CreateStatus:", err)
		utils.RespondError(c, http.StatusInternalServerError, "Failed to store status check")
		return
	}
	utils.RespondJSON(c, http.StatusOK, check)
}

func (api *StatusController) FindStatusHandler(c *gin.Context) {
	checks, err := api.statusService.FindAll()
	if err != nil {
		log.Println("FindStatus:", err)
		utils.RespondError(c, http.StatusInternalServerError, "Failed to list status checks")
		return
	}
	utils.RespondJSON(c, http.StatusOK, checks)
}
