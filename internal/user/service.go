package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/automaster/automaster/internal/common/apperr"
	"github.com/google/uuid"
)

// Store 账号持久化接口。查询方法在记录不存在时返回 (nil, nil)。
type Store interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	SearchByName(ctx context.Context, name string) ([]User, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List 账号列表；role/name 非空时分别过滤。
func (s *Service) List(ctx context.Context, role Role, name string) ([]User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if role != "" {
		if !ValidRole(role) {
			return nil, apperr.Invalid("PARAM_ERROR", "无效的角色：%s", role)
		}
		return s.store.ListByRole(ctx, role)
	}
	if name = strings.TrimSpace(name); name != "" {
		return s.store.SearchByName(ctx, name)
	}
	return s.store.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "用户ID不能为空")
	}
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("USER_NOT_FOUND", "用户不存在")
	}
	return u, nil
}

// CreateInput 新建账号入参（明文密码只在这里出现）。
type CreateInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Create 新建账号：登录名唯一，密码必填并入库前哈希。
func (s *Service) Create(ctx context.Context, in *CreateInput) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if in == nil {
		return nil, apperr.Invalid("PARAM_ERROR", "用户信息不能为空")
	}
	username := strings.TrimSpace(in.Username)
	name := strings.TrimSpace(in.Name)
	if username == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "登录名不能为空")
	}
	if name == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "姓名不能为空")
	}
	if in.Password == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "密码不能为空")
	}
	role := in.Role
	if role == "" {
		role = RoleSales
	}
	if !ValidRole(role) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的角色：%s", role)
	}

	if err := s.checkUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Status:       StatusActive,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateInput 编辑账号入参；留空的字段保持原值，密码留空表示不改密码。
type UpdateInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func (s *Service) Update(ctx context.Context, id string, in *UpdateInput) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, apperr.Invalid("PARAM_ERROR", "用户信息不能为空")
	}

	if username := strings.TrimSpace(in.Username); username != "" && username != u.Username {
		if err := s.checkUsernameFree(ctx, username, id); err != nil {
			return nil, err
		}
		u.Username = username
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if in.Role != "" {
		if !ValidRole(in.Role) {
			return nil, apperr.Invalid("PARAM_ERROR", "无效的角色：%s", in.Role)
		}
		u.Role = in.Role
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		u.Email = email
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		u.Phone = phone
	}
	if in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.store.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateStatus 启用/停用账号。
func (s *Service) UpdateStatus(ctx context.Context, id string, st Status) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidStatus(st) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的账号状态：%s", st)
	}
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Status = st
	if err := s.store.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Login 校验登录名/密码并确认账号可用。
// 登录名不存在和密码错误返回同一个错误码，避免探测账号。
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "登录名和密码不能为空")
	}
	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Invalid("LOGIN_FAILED", "登录名或密码错误")
	}
	if u.Status != StatusActive {
		return nil, apperr.Conflict("USER_DISABLED", "账号已停用，请联系管理员")
	}
	return u, nil
}

func (s *Service) checkUsernameFree(ctx context.Context, username, excludeID string) error {
	existing, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if excludeID != "" && existing.ID == excludeID {
		return nil
	}
	return apperr.Conflict("USERNAME_DUPLICATE", "登录名已存在")
}
