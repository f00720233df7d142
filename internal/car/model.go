package car

import "time"

// Status 车辆状态枚举（持久化为字符串）。
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"   // 在售
	StatusReserved    Status = "RESERVED"    // 已预定（定金+客户）
	StatusSold        Status = "SOLD"        // 已售出（终态）
	StatusMaintenance Status = "MAINTENANCE" // 整备中
)

// ValidStatus 判断是否为合法状态值。
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold, StatusMaintenance:
		return true
	}
	return false
}

// Car 车辆 GORM 模型。
// 预定状态的客户/定金直接挂在车辆行上（销售前的暂存数据，成交/取消时清空）。
type Car struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Make      string `gorm:"size:50;not null" json:"make"`
	Model     string `gorm:"size:50;not null" json:"model"`
	Year      int    `gorm:"not null" json:"year"`
	Price     int64  `gorm:"not null" json:"price"`      // 挂牌价
	CostPrice int64  `gorm:"not null" json:"costPrice"`  // 收购成本（利润计算用）
	Mileage   int    `gorm:"not null" json:"mileage"`
	Color     string `gorm:"size:20;not null" json:"color"`
	VIN       string `gorm:"column:vin;uniqueIndex;size:50;not null" json:"vin"`
	Status    Status `gorm:"type:varchar(20);index;not null;default:'AVAILABLE'" json:"status"`

	// 预定暂存字段：仅 RESERVED 状态下有值
	CustomerID *string `gorm:"size:36" json:"customerId"` // 预定客户
	Deposit    *int64  `json:"deposit"`                   // 定金金额

	Description string    `gorm:"size:1000" json:"description"`
	ImageURL    string    `gorm:"size:500" json:"imageUrl"`
	DateAdded   time.Time `gorm:"autoCreateTime" json:"dateAdded"` // 入库时间，不可修改
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Car) TableName() string { return "cars" }
