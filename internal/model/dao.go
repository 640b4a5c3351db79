package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaoProposal DAO 提案；VotesFor/VotesAgainst 为投票权重累加
type DaoProposal struct {
	ID                 uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	ContractProposalID int64           `gorm:"column:contract_proposal_id;type:bigint;not null" json:"contractProposalId"`
	Title              string          `gorm:"column:title;type:varchar(256);not null" json:"title"`
	Description        string          `gorm:"column:description;type:text;not null" json:"description"`
	Creator            string          `gorm:"column:creator;type:varchar(64);not null" json:"creator"`
	VotesFor           decimal.Decimal `gorm:"column:votes_for;type:numeric(18,8);default:0" json:"votesFor"`
	VotesAgainst       decimal.Decimal `gorm:"column:votes_against;type:numeric(18,8);default:0" json:"votesAgainst"`
	Executed           bool            `gorm:"column:executed;type:boolean;default:false" json:"executed"`
	EndTime            time.Time       `gorm:"column:end_time;type:timestamp;not null" json:"endTime"`
	CreatedAt          time.Time       `gorm:"column:created_at;type:timestamp;default:now()" json:"createdAt"`
}

// DaoVote 每次投票调用生成一条，不做去重
type DaoVote struct {
	ID         uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProposalID uint64          `gorm:"column:proposal_id;type:bigint;index;not null" json:"proposalId"`
	Voter      string          `gorm:"column:voter;type:varchar(64);not null" json:"voter"`
	Support    bool            `gorm:"column:support;type:boolean;not null" json:"support"`
	Weight     decimal.Decimal `gorm:"column:weight;type:numeric(18,8);not null" json:"weight"`
	CreatedAt  time.Time       `gorm:"column:created_at;type:timestamp;default:now()" json:"createdAt"`
}

func (DaoProposal) TableName() string { return "dao_proposals" }
func (DaoVote) TableName() string     { return "dao_votes" }
