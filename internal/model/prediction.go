package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PredictionEvent 预测赛事。open -> resolved 单向；TotalPool/BetCount 随下注累加
type PredictionEvent struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	ContractEventID int64           `gorm:"column:contract_event_id;type:bigint;not null;comment:合约侧事件ID" json:"contractEventId"`
	Name            string          `gorm:"column:name;type:varchar(256);not null;comment:赛事名称" json:"name"`
	Description     string          `gorm:"column:description;type:text;comment:描述" json:"description"`
	Game            string          `gorm:"column:game;type:varchar(64);not null;comment:游戏分类" json:"game"`
	IPFSHash        string          `gorm:"column:ipfs_hash;type:varchar(128);comment:元数据hash" json:"ipfsHash"`
	EndTime         time.Time       `gorm:"column:end_time;type:timestamp;not null;comment:结束时间" json:"endTime"`
	Resolved        bool            `gorm:"column:resolved;type:boolean;default:false;comment:是否已结算" json:"resolved"`
	WinningOption   *int            `gorm:"column:winning_option;type:int;comment:获胜选项" json:"winningOption"`
	TotalPool       decimal.Decimal `gorm:"column:total_pool;type:numeric(18,8);default:0;comment:奖池总额" json:"totalPool"`
	BetCount        int             `gorm:"column:bet_count;type:int;default:0;comment:下注笔数" json:"betCount"`
	CreatedAt       time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间" json:"createdAt"`
}

// Bet 单笔下注，创建后仅 Claimed 可变
type Bet struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID     uint64          `gorm:"column:event_id;type:bigint;index;not null" json:"eventId"`
	UserAddress string          `gorm:"column:user_address;type:varchar(64);index" json:"userAddress"`
	Option      int             `gorm:"column:option;type:int;not null" json:"option"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(18,8);not null" json:"amount"`
	Odds        decimal.Decimal `gorm:"column:odds;type:numeric(6,2);not null" json:"odds"`
	Claimed     bool            `gorm:"column:claimed;type:boolean;default:false" json:"claimed"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamp;default:now()" json:"createdAt"`
}

func (PredictionEvent) TableName() string { return "prediction_events" }
func (Bet) TableName() string             { return "bets" }
