package user

import "time"

// Role 系统角色。
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleSales Role = "Sales"
)

// Status 账号状态。
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
)

func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleSales
}

func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusDisabled
}

// User 后台账号。密码只存 bcrypt 哈希，响应序列化时不输出。
type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Role         Role      `gorm:"size:16;not null;default:Sales" json:"role"`
	Email        string    `gorm:"size:128" json:"email"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Status       Status    `gorm:"size:16;not null;default:ACTIVE" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
