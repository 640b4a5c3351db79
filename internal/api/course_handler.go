package api

import (
	"net/http"

	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CourseHandler 课程 NFT 与市场接口
type CourseHandler struct {
	courseService      *service.CourseService
	marketplaceService *service.MarketplaceService
	logger             *logrus.Logger
}

func NewCourseHandler(course *service.CourseService, marketplace *service.MarketplaceService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{courseService: course, marketplaceService: marketplace, logger: logger}
}

// 价格字段均为 CHZ
type createCourseRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Creator     string          `json:"creator" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	IPFSURI     string          `json:"ipfsUri"`
	Duration    string          `json:"duration"`
	Rating      decimal.Decimal `json:"rating"`
}

type purchaseCourseRequest struct {
	Purchaser string `json:"purchaser" binding:"required"`
}

type listItemRequest struct {
	TokenID  int64           `json:"tokenId"`
	Seller   string          `json:"seller" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	ItemType string          `json:"itemType" binding:"omitempty,oneof=course collectible merchandise"`
	Metadata map[string]any  `json:"metadata"`
}

type buyItemRequest struct {
	ItemID uint64 `json:"itemId" binding:"required"`
	Buyer  string `json:"buyer" binding:"required"`
}

// ListCourses GET /api/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListCourses", err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CreateCourse POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, txHash, err := h.courseService.CreateCourse(c.Request.Context(), service.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Creator:     req.Creator,
		Price:       req.Price,
		IPFSURI:     req.IPFSURI,
		Duration:    req.Duration,
		Rating:      req.Rating,
	})
	if err != nil {
		respondError(c, h.logger, "CreateCourse", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "course": course, "txHash": txHash})
}

// PurchaseCourse POST /api/courses/:id/purchase
func (h *CourseHandler) PurchaseCourse(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req purchaseCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course, txHash, err := h.courseService.PurchaseCourse(c.Request.Context(), id, req.Purchaser)
	if err != nil {
		respondError(c, h.logger, "PurchaseCourse", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "course": course, "txHash": txHash})
}

// ListItems GET /api/marketplace
func (h *CourseHandler) ListItems(c *gin.Context) {
	items, err := h.marketplaceService.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListItems", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListItem POST /api/marketplace/list
func (h *CourseHandler) ListItem(c *gin.Context) {
	var req listItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, txHash, err := h.marketplaceService.ListItem(c.Request.Context(), service.ListItemInput{
		TokenID:  req.TokenID,
		Seller:   req.Seller,
		Price:    req.Price,
		ItemType: req.ItemType,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondError(c, h.logger, "ListItem", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": item, "txHash": txHash})
}

// BuyItem POST /api/marketplace/buy
func (h *CourseHandler) BuyItem(c *gin.Context) {
	var req buyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, txHash, err := h.marketplaceService.BuyItem(c.Request.Context(), req.ItemID, req.Buyer)
	if err != nil {
		respondError(c, h.logger, "BuyItem", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": item, "txHash": txHash})
}
