package customer

import "time"

// Type 客户类型。
type Type string

const (
	TypeBuyer  Type = "Buyer"  // 买家
	TypeSeller Type = "Seller" // 卖家（收车渠道）
)

// Status 客户状态。
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusBlacklist Status = "BLACKLIST"
)

func ValidType(t Type) bool {
	return t == TypeBuyer || t == TypeSeller
}

func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusBlacklist
}

// Customer 客户档案。
type Customer struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Phone       string    `gorm:"size:32;uniqueIndex;not null" json:"phone"`
	Type        Type      `gorm:"size:16;not null;default:Buyer" json:"type"`
	ContactInfo string    `gorm:"size:255" json:"contactInfo"`
	Source      string    `gorm:"size:64" json:"source"`
	Status      Status    `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	Remark      string    `gorm:"size:500" json:"remark"`
	DateAdded   time.Time `gorm:"autoCreateTime" json:"dateAdded"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Customer) TableName() string {
	return "customers"
}
