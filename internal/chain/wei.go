package chain

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// CHZ 与 fan token 均为 18 位精度
const tokenDecimals = 18

// ToWei 十进制金额转 wei，超出精度的部分截断
func ToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(tokenDecimals).Truncate(0).BigInt()
}

// FromWei wei 转十进制金额
func FromWei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -tokenDecimals)
}

// FormatBalance 余额展示格式，整数补 ".0"（与 mock 的 "100.0" 一致）
func FormatBalance(wei *big.Int) string {
	s := FromWei(wei).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
