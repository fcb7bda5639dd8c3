package handlers

import (
	"net/http"

	"roomhive/middleware"
	"roomhive/services/phone"
	"roomhive/utils"

	"github.com/gin-gonic/gin"
)

// PhoneHandler exposes the phone verification endpoints.
type PhoneHandler struct {
	Gate *phone.Gate
}

func NewPhoneHandler(gate *phone.Gate) *PhoneHandler {
	return &PhoneHandler{Gate: gate}
}

// IssueHandler sends a verification code to the submitted phone number.
func (h *PhoneHandler) IssueHandler(c *gin.Context) {
	var in struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	if _, err := h.Gate.Issue(c.Request.Context(), in.Phone); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

// ConfirmHandler matches a submitted code and binds the phone to the
// authenticated account.
func (h *PhoneHandler) ConfirmHandler(c *gin.Context) {
	accountID, ok := middleware.AuthedUserID(c)
	if !ok {
		utils.RespondError(c, utils.AuthenticationError("authentication required"))
		return
	}

	var in struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	res, err := h.Gate.Verify(c.Request.Context(), accountID, in.Phone, in.Code)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
