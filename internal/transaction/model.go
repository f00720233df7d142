package transaction

import (
	"time"

	"github.com/automaster/automaster/internal/car"
	"github.com/automaster/automaster/internal/customer"
)

// Status 交易状态。
// RESERVED 是进行中的预定单；COMPLETED/CANCELLED 是终态，留作审计记录。
type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func ValidStatus(s Status) bool {
	return s == StatusReserved || s == StatusCompleted || s == StatusCancelled
}

// Transaction 交易记录 GORM 模型。
// Price 是下单时约定的成交价；FinalPrice 只在 COMPLETED 后有值。
type Transaction struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	CarID           string    `gorm:"size:36;index;not null" json:"carId"`
	CustomerID      string    `gorm:"size:36;index;not null" json:"customerId"`
	Price           int64     `gorm:"not null" json:"price"`
	FinalPrice      *int64    `json:"finalPrice"`
	Deposit         *int64    `json:"deposit"`
	Status          Status    `gorm:"type:varchar(20);index;not null" json:"status"`
	Date            time.Time `gorm:"index;not null" json:"date"`
	HandledByUserID *string   `gorm:"size:36" json:"handledByUserId"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// 列表/搜索接口返回时填充，不落库
	Car      *car.Car           `gorm:"-" json:"car,omitempty"`
	Customer *customer.Customer `gorm:"-" json:"customer,omitempty"`
}

func (Transaction) TableName() string { return "transactions" }
