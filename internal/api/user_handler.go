package api

import (
	"net/http"

	"EsportsHub/internal/model"
	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// UserHandler 用户资料接口
type UserHandler struct {
	userService *service.UserService
	logger      *logrus.Logger
}

func NewUserHandler(svc *service.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userService: svc, logger: logger}
}

type updateUserRequest struct {
	Username        *string          `json:"username"`
	ChzBalance      *decimal.Decimal `json:"chzBalance"`
	FanTokenBalance *decimal.Decimal `json:"fanTokenBalance"`
}

// GetUser GET /api/user/:address，不存在时创建
func (h *UserHandler) GetUser(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, h.logger, "GetUser", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateUser PUT /api/user/:address
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("address"), model.UserUpdate{
		Username:        req.Username,
		ChzBalance:      req.ChzBalance,
		FanTokenBalance: req.FanTokenBalance,
	})
	if err != nil {
		respondError(c, h.logger, "UpdateUser", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Balances GET /api/user/:address/balances
func (h *UserHandler) Balances(c *gin.Context) {
	balances, err := h.userService.Balances(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, h.logger, "Balances", err)
		return
	}
	c.JSON(http.StatusOK, balances)
}
