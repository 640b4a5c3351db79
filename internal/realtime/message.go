package realtime

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// 推送事件标签
const (
	EventBetPlaced     = "bet:placed"
	EventVideoNew      = "video:new"
	EventNewProposal   = "dao:newProposal"
	EventVoteUpdate    = "dao:voteUpdate"
	EventItemSold      = "marketplace:itemSold"
	EventEventResolved = "event:resolved"
)

// Message 推送给 socket 客户端的统一结构 {event, data}
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// BetPlaced bet:placed
type BetPlaced struct {
	EventID uint64          `json:"eventId"`
	Bettor  string          `json:"bettor,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Option  int             `json:"option"`
}

// VideoNew video:new
type VideoNew struct {
	ID       uint64 `json:"id"`
	Creator  string `json:"creator"`
	IPFSHash string `json:"ipfsHash"`
	Title    string `json:"title"`
}

// NewProposal dao:newProposal
type NewProposal struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VoteUpdate dao:voteUpdate，票数为累加后的总数
type VoteUpdate struct {
	ProposalID   uint64          `json:"proposalId"`
	VotesFor     decimal.Decimal `json:"votesFor"`
	VotesAgainst decimal.Decimal `json:"votesAgainst"`
}

// ItemSold marketplace:itemSold，ItemID 为合约侧 item id
type ItemSold struct {
	ItemID int64           `json:"itemId"`
	Buyer  string          `json:"buyer"`
	Price  decimal.Decimal `json:"price"`
}

// EventResolved event:resolved
type EventResolved struct {
	EventID       uint64 `json:"eventId"`
	WinningOption int    `json:"winningOption"`
}

// Publisher 推送出口（本机 hub、Redis 中继、Kafka 审计流）
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Fanout 依次发布到所有出口，错误合并返回
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, msg Message) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewPublisher relay 非空时本机 hub 只经由中继接收，每条消息只推送一次；sink 可为 nil
func NewPublisher(hub *Hub, relay *RedisRelay, sink *KafkaSink) Fanout {
	var pub Fanout
	if relay != nil {
		pub = append(pub, relay)
	} else {
		pub = append(pub, hub)
	}
	if sink != nil {
		pub = append(pub, sink)
	}
	return pub
}
