package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-meet-signal/utils"
)

// Controller holds helpers shared by every API controller.
type Controller struct{}

// bindJSON decodes the request body into v and answers 400 on failure.
func (Controller) bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
