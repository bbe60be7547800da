package debt

import (
	"time"

	"github.com/shopspring/decimal"
)

// Debt 员工欠款记录
type Debt struct {
	ID          uint
	UserID      uint            // 欠款员工
	Amount      decimal.Decimal // 欠款金额
	Description string
	Paid        bool // 是否已还清
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDebt 创建欠款记录
func NewDebt(userID uint, amount decimal.Decimal, description string) (*Debt, error) {
	if userID == 0 {
		return nil, ErrInvalidUser
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	now := time.Now()
	return &Debt{
		UserID:      userID,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update 修改欠款信息,nil表示不修改
func (d *Debt) Update(amount *decimal.Decimal, description *string, paid *bool) error {
	if amount != nil {
		if amount.IsNegative() {
			return ErrInvalidAmount
		}
		d.Amount = *amount
	}
	if description != nil {
		d.Description = *description
	}
	if paid != nil {
		d.Paid = *paid
	}
	d.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy 是否属于指定员工
func (d *Debt) IsOwnedBy(userID uint) bool {
	return d.UserID == userID
}
