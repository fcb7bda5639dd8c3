package handlers

import (
	"net/http"

	"roomhive/middleware"
	"roomhive/services/account"
	"roomhive/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes account registration and authentication endpoints.
type AuthHandler struct {
	Svc *account.Service
}

func NewAuthHandler(svc *account.Service) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// RegisterHandler creates a new account and returns a session token.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var in account.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	res, err := h.Svc.Signup(in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// LoginHandler authenticates by email and password.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.ValidationError(err.Error()))
		return
	}

	res, err := h.Svc.Signin(in.Email, in.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// MeHandler returns the authenticated account's profile.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	accountID, ok := middleware.AuthedUserID(c)
	if !ok {
		utils.RespondError(c, utils.AuthenticationError("authentication required"))
		return
	}

	acc, err := h.Svc.GetByID(accountID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}
