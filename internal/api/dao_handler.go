package api

import (
	"net/http"
	"time"

	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DAOHandler 提案与投票接口
type DAOHandler struct {
	daoService *service.DAOService
	logger     *logrus.Logger
}

func NewDAOHandler(svc *service.DAOService, logger *logrus.Logger) *DAOHandler {
	return &DAOHandler{daoService: svc, logger: logger}
}

type createProposalRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Creator     string    `json:"creator" binding:"required"`
	EndTime     time.Time `json:"endTime"`
}

type voteRequest struct {
	ProposalID uint64          `json:"proposalId" binding:"required"`
	Voter      string          `json:"voter" binding:"required"`
	Support    bool            `json:"support"`
	Weight     decimal.Decimal `json:"weight"`
}

// defaultVotingPeriod 未指定 endTime 时的投票期
const defaultVotingPeriod = 7 * 24 * time.Hour

// ListProposals GET /api/dao/proposals
func (h *DAOHandler) ListProposals(c *gin.Context) {
	proposals, err := h.daoService.ListProposals(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListProposals", err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// ListVotes GET /api/dao/proposals/:id/votes
func (h *DAOHandler) ListVotes(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	votes, err := h.daoService.ListVotes(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "ListVotes", err)
		return
	}
	c.JSON(http.StatusOK, votes)
}

// CreateProposal POST /api/dao/proposal
func (h *DAOHandler) CreateProposal(c *gin.Context) {
	var req createProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EndTime.IsZero() {
		req.EndTime = time.Now().Add(defaultVotingPeriod)
	}
	proposal, err := h.daoService.CreateProposal(c.Request.Context(), service.CreateProposalInput{
		Title:       req.Title,
		Description: req.Description,
		Creator:     req.Creator,
		EndTime:     req.EndTime,
	})
	if err != nil {
		respondError(c, h.logger, "CreateProposal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "proposal": proposal})
}

// Vote POST /api/dao/vote
func (h *DAOHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vote, proposal, err := h.daoService.Vote(c.Request.Context(), service.VoteInput{
		ProposalID: req.ProposalID,
		Voter:      req.Voter,
		Support:    req.Support,
		Weight:     req.Weight,
	})
	if err != nil {
		respondError(c, h.logger, "Vote", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vote": vote, "proposal": proposal})
}

// ExecuteProposal POST /api/admin/proposals/:id/execute
func (h *DAOHandler) ExecuteProposal(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	proposal, txHash, err := h.daoService.ExecuteProposal(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "ExecuteProposal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "proposal": proposal, "txHash": txHash})
}
