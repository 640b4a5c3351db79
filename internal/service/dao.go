package service

import (
	"context"
	"fmt"
	"time"

	"EsportsHub/internal/interfaces"
	"EsportsHub/internal/model"
	"EsportsHub/internal/realtime"
	"EsportsHub/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DAOService 提案与投票。同一地址可重复投票，每次都累加权重
type DAOService struct {
	proposals repository.ProposalRepository
	chain     interfaces.BlockchainAdapter
	pub       realtime.Publisher
	logger    *logrus.Logger
}

func NewDAOService(store repository.Store, chain interfaces.BlockchainAdapter, pub realtime.Publisher, logger *logrus.Logger) *DAOService {
	return &DAOService{
		proposals: store,
		chain:     chain,
		pub:       pub,
		logger:    logger,
	}
}

// CreateProposalInput 提案参数
type CreateProposalInput struct {
	Title       string
	Description string
	Creator     string
	EndTime     time.Time
}

// VoteInput 投票参数
type VoteInput struct {
	ProposalID uint64
	Voter      string
	Support    bool
	Weight     decimal.Decimal
}

func (s *DAOService) ListProposals(ctx context.Context) ([]*model.DaoProposal, error) {
	return s.proposals.ListProposals(ctx)
}

func (s *DAOService) ListVotes(ctx context.Context, proposalID uint64) ([]*model.DaoVote, error) {
	if _, err := s.proposals.GetProposal(ctx, proposalID); err != nil {
		return nil, err
	}
	return s.proposals.ListVotes(ctx, proposalID)
}

func (s *DAOService) CreateProposal(ctx context.Context, in CreateProposalInput) (*model.DaoProposal, error) {
	if in.Title == "" || in.Description == "" {
		return nil, invalidf("title and description are required")
	}
	if in.Creator == "" {
		return nil, invalidf("creator is required")
	}
	contractID, txHash, err := s.chain.CreateProposal(ctx, in.Description)
	if err != nil {
		return nil, fmt.Errorf("链上创建提案失败: %w", err)
	}
	p, err := s.proposals.CreateProposal(ctx, &model.DaoProposal{
		ContractProposalID: contractID,
		Title:              in.Title,
		Description:        in.Description,
		Creator:            in.Creator,
		VotesFor:           decimal.Zero,
		VotesAgainst:       decimal.Zero,
		EndTime:            in.EndTime,
	})
	if err != nil {
		return nil, err
	}
	notify(ctx, s.pub, s.logger, realtime.EventNewProposal, realtime.NewProposal{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
	})
	s.logger.WithFields(logrus.Fields{"proposal_id": p.ID, "tx_hash": txHash}).Info("提案已创建")
	return p, nil
}

// Vote 链上投票 -> 原子写入投票并累加票数 -> 推送 dao:voteUpdate
func (s *DAOService) Vote(ctx context.Context, in VoteInput) (*model.DaoVote, *model.DaoProposal, error) {
	if !in.Weight.IsPositive() {
		return nil, nil, invalidf("weight must be positive")
	}
	if in.Voter == "" {
		return nil, nil, invalidf("voter is required")
	}
	p, err := s.proposals.GetProposal(ctx, in.ProposalID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.chain.Vote(ctx, p.ContractProposalID, in.Support); err != nil {
		return nil, nil, fmt.Errorf("链上投票失败: %w", err)
	}
	vote, updated, err := s.proposals.CastVote(ctx, &model.DaoVote{
		ProposalID: in.ProposalID,
		Voter:      in.Voter,
		Support:    in.Support,
		Weight:     in.Weight,
	})
	if err != nil {
		return nil, nil, err
	}
	notify(ctx, s.pub, s.logger, realtime.EventVoteUpdate, realtime.VoteUpdate{
		ProposalID:   updated.ID,
		VotesFor:     updated.VotesFor,
		VotesAgainst: updated.VotesAgainst,
	})
	return vote, updated, nil
}

func (s *DAOService) ExecuteProposal(ctx context.Context, id uint64) (*model.DaoProposal, string, error) {
	p, err := s.proposals.GetProposal(ctx, id)
	if err != nil {
		return nil, "", err
	}
	txHash, err := s.chain.ExecuteProposal(ctx, p.ContractProposalID)
	if err != nil {
		return nil, "", fmt.Errorf("链上执行提案失败: %w", err)
	}
	executed, err := s.proposals.ExecuteProposal(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return executed, txHash, nil
}
