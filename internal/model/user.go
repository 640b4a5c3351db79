package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User 钱包用户，首次查询时懒创建，永不删除
type User struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	Address         string          `gorm:"column:address;type:varchar(64);uniqueIndex;not null;comment:钱包地址" json:"address"`
	Username        *string         `gorm:"column:username;type:varchar(64);comment:显示名" json:"username"`
	ChzBalance      decimal.Decimal `gorm:"column:chz_balance;type:numeric(18,8);default:0;comment:CHZ余额" json:"chzBalance"`
	FanTokenBalance decimal.Decimal `gorm:"column:fan_token_balance;type:numeric(18,8);default:0;comment:Fan Token余额" json:"fanTokenBalance"`
	CreatedAt       time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间" json:"createdAt"`
}

func (User) TableName() string { return "users" }

// UserUpdate 用户资料/余额的部分更新，nil 字段保持不变
type UserUpdate struct {
	Username        *string
	ChzBalance      *decimal.Decimal
	FanTokenBalance *decimal.Decimal
}
