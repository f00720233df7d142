package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/automaster/automaster/internal/common/apperr"
	"github.com/google/uuid"
)

// Store 客户持久化接口。查询方法在记录不存在时返回 (nil, nil)。
type Store interface {
	Create(ctx context.Context, c *Customer) error
	Save(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id string) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Search(ctx context.Context, keyword string) ([]Customer, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List 全量客户列表；keyword 非空时按姓名/手机号模糊搜索。
func (s *Service) List(ctx context.Context, keyword string) ([]Customer, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.store.List(ctx)
	}
	return s.store.Search(ctx, keyword)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Customer, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "客户ID不能为空")
	}
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("CUSTOMER_NOT_FOUND", "客户不存在")
	}
	return c, nil
}

// Create 新增客户：姓名、手机号必填，手机号全局唯一。
func (s *Service) Create(ctx context.Context, c *Customer) (*Customer, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if c == nil {
		return nil, apperr.Invalid("PARAM_ERROR", "客户信息不能为空")
	}
	if err := validateRequired(c); err != nil {
		return nil, err
	}
	normalize(c)
	if c.Type == "" {
		c.Type = TypeBuyer
	}
	if !ValidType(c.Type) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的客户类型：%s", c.Type)
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	if !ValidStatus(c.Status) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的客户状态：%s", c.Status)
	}

	if err := s.checkPhoneUnique(ctx, c.Phone, ""); err != nil {
		return nil, err
	}

	if strings.TrimSpace(c.ID) == "" {
		c.ID = uuid.NewString()
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update 修改客户：手机号唯一性排除自身，建档时间不可修改。
func (s *Service) Update(ctx context.Context, id string, c *Customer) (*Customer, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	old, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Invalid("PARAM_ERROR", "客户信息不能为空")
	}
	if err := validateRequired(c); err != nil {
		return nil, err
	}
	normalize(c)
	if c.Type == "" {
		c.Type = old.Type
	}
	if !ValidType(c.Type) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的客户类型：%s", c.Type)
	}
	if c.Status == "" {
		c.Status = old.Status
	}
	if !ValidStatus(c.Status) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的客户状态：%s", c.Status)
	}

	if err := s.checkPhoneUnique(ctx, c.Phone, id); err != nil {
		return nil, err
	}

	c.ID = id
	c.DateAdded = old.DateAdded
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
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

func (s *Service) checkPhoneUnique(ctx context.Context, phone, excludeID string) error {
	existing, err := s.store.FindByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if excludeID != "" && existing.ID == excludeID {
		return nil
	}
	return apperr.Conflict("PHONE_DUPLICATE", "手机号已存在，请检查后重新录入")
}

func validateRequired(c *Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Invalid("PARAM_ERROR", "客户姓名不能为空")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return apperr.Invalid("PARAM_ERROR", "手机号不能为空")
	}
	return nil
}

func normalize(c *Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.ContactInfo = strings.TrimSpace(c.ContactInfo)
	c.Source = strings.TrimSpace(c.Source)
}
