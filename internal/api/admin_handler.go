package api

import (
	"net/http"

	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// AdminHandler 部署信息与测试动作。测试动作失败时仍返回 200 {success:false, message}
type AdminHandler struct {
	adminService *service.AdminService
	logger       *logrus.Logger
}

func NewAdminHandler(svc *service.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{adminService: svc, logger: logger}
}

type deployContractRequest struct {
	ContractName string `json:"contractName"`
}

type testEventRequest struct {
	Name     string `json:"name"`
	IPFSHash string `json:"ipfsHash"`
	EndTime  int64  `json:"endTime"`
}

type testMintRequest struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

type testVideoRequest struct {
	Title   string `json:"title"`
	Creator string `json:"creator"`
}

type testCourseRequest struct {
	Title   string          `json:"title"`
	Price   decimal.Decimal `json:"price"`
	Creator string          `json:"creator"`
}

type testItemRequest struct {
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Seller string          `json:"seller"`
}

// DeployContract POST /api/admin/deploy-contract
func (h *AdminHandler) DeployContract(c *gin.Context) {
	var req deployContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	info, err := h.adminService.DeployContract(req.ContractName)
	if err != nil {
		respondError(c, h.logger, "DeployContract", err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// DeploymentStatus GET /api/admin/deployment-status
func (h *AdminHandler) DeploymentStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.adminService.DeploymentStatus())
}

// testAction 统一的测试动作响应
func (h *AdminHandler) testAction(c *gin.Context, op, fallback string, res *service.TestResult, err error) {
	if err != nil {
		h.logger.WithError(err).WithField("op", op).Warn("管理员测试动作失败")
		msg := err.Error()
		if msg == "" {
			msg = fallback
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "message": msg})
		return
	}
	body := gin.H{"success": true, "message": res.Message, "txHash": res.TxHash}
	if res.ID != 0 {
		body["id"] = res.ID
	}
	c.JSON(http.StatusOK, body)
}

// TestCreateEvent POST /api/admin/test/create-event
func (h *AdminHandler) TestCreateEvent(c *gin.Context) {
	var req testEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.testAction(c, "TestCreateEvent", "", nil, err)
		return
	}
	res, err := h.adminService.TestCreateEvent(c.Request.Context(), service.TestEventInput{
		Name:     req.Name,
		IPFSHash: req.IPFSHash,
		EndTime:  req.EndTime,
	})
	h.testAction(c, "TestCreateEvent", "Failed to create test event", res, err)
}

// TestMintTokens POST /api/admin/test/mint-tokens
func (h *AdminHandler) TestMintTokens(c *gin.Context) {
	var req testMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.testAction(c, "TestMintTokens", "", nil, err)
		return
	}
	res, err := h.adminService.TestMintTokens(c.Request.Context(), req.Address, req.Amount)
	h.testAction(c, "TestMintTokens", "Failed to mint fan tokens", res, err)
}

// TestUploadVideo POST /api/admin/test/upload-video
func (h *AdminHandler) TestUploadVideo(c *gin.Context) {
	var req testVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.testAction(c, "TestUploadVideo", "", nil, err)
		return
	}
	res, err := h.adminService.TestUploadVideo(c.Request.Context(), req.Title, req.Creator)
	h.testAction(c, "TestUploadVideo", "Failed to upload test video", res, err)
}

// TestCreateCourse POST /api/admin/test/create-course
func (h *AdminHandler) TestCreateCourse(c *gin.Context) {
	var req testCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.testAction(c, "TestCreateCourse", "", nil, err)
		return
	}
	res, err := h.adminService.TestCreateCourse(c.Request.Context(), req.Title, req.Price, req.Creator)
	h.testAction(c, "TestCreateCourse", "Failed to create course NFT", res, err)
}

// TestListItem POST /api/admin/test/list-item
func (h *AdminHandler) TestListItem(c *gin.Context) {
	var req testItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.testAction(c, "TestListItem", "", nil, err)
		return
	}
	res, err := h.adminService.TestListItem(c.Request.Context(), req.Name, req.Price, req.Seller)
	h.testAction(c, "TestListItem", "Failed to list marketplace item", res, err)
}
