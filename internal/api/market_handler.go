package api

import (
	"net/http"

	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MarketHandler 预测赛事与下注接口
type MarketHandler struct {
	marketService *service.MarketService
	logger        *logrus.Logger
}

// NewMarketHandler 创建 MarketHandler
func NewMarketHandler(svc *service.MarketService, logger *logrus.Logger) *MarketHandler {
	return &MarketHandler{marketService: svc, logger: logger}
}

type placeBetRequest struct {
	EventID     uint64          `json:"eventId" binding:"required"`
	Option      int             `json:"option"`
	Amount      decimal.Decimal `json:"amount"`
	UserAddress string          `json:"userAddress"`
	Odds        decimal.Decimal `json:"odds"`
}

type resolveEventRequest struct {
	WinningOption int `json:"winningOption"`
}

// ListEvents GET /api/events
func (h *MarketHandler) ListEvents(c *gin.Context) {
	events, err := h.marketService.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListEvents", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent GET /api/events/:id
func (h *MarketHandler) GetEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.marketService.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetEvent", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// PlaceBet POST /api/bet
func (h *MarketHandler) PlaceBet(c *gin.Context) {
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.marketService.PlaceBet(c.Request.Context(), service.PlaceBetInput{
		EventID:     req.EventID,
		Option:      req.Option,
		Amount:      req.Amount,
		UserAddress: req.UserAddress,
		Odds:        req.Odds,
	})
	if err != nil {
		respondError(c, h.logger, "PlaceBet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bet":     res.Bet,
		"event":   res.Event,
		"txHash":  res.TxHash,
	})
}

// ClaimBet POST /api/bets/:id/claim
func (h *MarketHandler) ClaimBet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	bet, err := h.marketService.ClaimBet(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "ClaimBet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bet": bet})
}

// ResolveEvent POST /api/admin/events/:id/resolve
func (h *MarketHandler) ResolveEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req resolveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, txHash, err := h.marketService.ResolveEvent(c.Request.Context(), id, req.WinningOption)
	if err != nil {
		respondError(c, h.logger, "ResolveEvent", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "event": ev, "txHash": txHash})
}
