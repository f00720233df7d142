package car

import (
	"context"
	"fmt"
	"strings"

	"github.com/automaster/automaster/internal/common/apperr"
	"github.com/google/uuid"
)

// Store 车辆持久化接口（gorm Repo 实现；服务层测试用内存实现）。
// 查询方法在记录不存在时返回 (nil, nil)。
type Store interface {
	Create(ctx context.Context, c *Car) error
	Save(ctx context.Context, c *Car) error
	FindByID(ctx context.Context, id string) (*Car, error)
	FindByVIN(ctx context.Context, vin string) (*Car, error)
	List(ctx context.Context) ([]Car, error)
	ListByStatus(ctx context.Context, st Status) ([]Car, error)
	Delete(ctx context.Context, id string) error
}

// RefCounter 查询车辆被交易记录引用的数量（由交易仓储提供）。
// 被引用的车辆不允许物理删除。
type RefCounter interface {
	CountByCarID(ctx context.Context, carID string) (int64, error)
}

// Service 封装车辆领域的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	store Store
	refs  RefCounter
}

func NewService(store Store, refs RefCounter) *Service {
	return &Service{store: store, refs: refs}
}

func (s *Service) List(ctx context.Context) ([]Car, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	return s.store.List(ctx)
}

func (s *Service) ListByStatus(ctx context.Context, st Status) ([]Car, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if !ValidStatus(st) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的车辆状态：%s", st)
	}
	return s.store.ListByStatus(ctx, st)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Car, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "车辆ID不能为空")
	}
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("CAR_NOT_FOUND", "车辆ID不存在")
	}
	return c, nil
}

// Create 新增车辆：基础字段校验 + VIN 唯一性 + 预定字段一致性。
func (s *Service) Create(ctx context.Context, c *Car) (*Car, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if c == nil {
		return nil, apperr.Invalid("PARAM_ERROR", "车辆信息不能为空")
	}
	if err := validateRequired(c); err != nil {
		return nil, err
	}

	normalize(c)
	if c.Status == "" {
		c.Status = StatusAvailable
	}
	if !ValidStatus(c.Status) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的车辆状态：%s", c.Status)
	}
	if err := ValidateReservationFields(c); err != nil {
		return nil, err
	}

	if err := s.checkVINUnique(ctx, c.VIN, ""); err != nil {
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

// Update 修改车辆：状态变化必须符合状态机，入库时间不可修改。
func (s *Service) Update(ctx context.Context, id string, c *Car) (*Car, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	old, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.Invalid("PARAM_ERROR", "车辆信息不能为空")
	}
	if err := validateRequired(c); err != nil {
		return nil, err
	}

	normalize(c)
	if c.Status == "" {
		c.Status = old.Status
	}
	if !ValidStatus(c.Status) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的车辆状态：%s", c.Status)
	}
	if !CanTransition(old.Status, c.Status) {
		return nil, apperr.Conflict("ILLEGAL_STATUS", "不允许的状态变更：%s -> %s", old.Status, c.Status)
	}
	if err := ValidateReservationFields(c); err != nil {
		return nil, err
	}

	if err := s.checkVINUnique(ctx, c.VIN, id); err != nil {
		return nil, err
	}

	c.ID = id
	c.DateAdded = old.DateAdded
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 删除车辆；被交易记录引用的车辆拒绝删除。
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if s.refs != nil {
		n, err := s.refs.CountByCarID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Conflict("CAR_REFERENCED", "车辆存在关联交易记录，无法删除")
		}
	}
	return s.store.Delete(ctx, id)
}

// CheckVIN VIN 唯一性校验（编辑场景用 excludeID 排除自身）。
func (s *Service) CheckVIN(ctx context.Context, vin, excludeID string) (bool, error) {
	if s == nil || s.store == nil {
		return false, fmt.Errorf("service not initialized")
	}
	vin = strings.TrimSpace(vin)
	if vin == "" {
		return false, apperr.Invalid("PARAM_ERROR", "VIN不能为空")
	}
	existing, err := s.store.FindByVIN(ctx, vin)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	if excludeID != "" && existing.ID == excludeID {
		return false, nil
	}
	return true, nil
}

func (s *Service) checkVINUnique(ctx context.Context, vin, excludeID string) error {
	exists, err := s.CheckVIN(ctx, vin, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Conflict("VIN_DUPLICATE", "VIN码已存在，请检查后重新录入")
	}
	return nil
}

func validateRequired(c *Car) error {
	if strings.TrimSpace(c.Make) == "" {
		return apperr.Invalid("PARAM_ERROR", "品牌不能为空")
	}
	if strings.TrimSpace(c.Model) == "" {
		return apperr.Invalid("PARAM_ERROR", "型号不能为空")
	}
	if c.Year == 0 {
		return apperr.Invalid("PARAM_ERROR", "年份不能为空")
	}
	if strings.TrimSpace(c.VIN) == "" {
		return apperr.Invalid("PARAM_ERROR", "VIN不能为空")
	}
	return nil
}

// normalize 去掉字符串字段的首尾空白，空客户ID统一为 NULL。
func normalize(c *Car) {
	c.Make = strings.TrimSpace(c.Make)
	c.Model = strings.TrimSpace(c.Model)
	c.VIN = strings.TrimSpace(c.VIN)
	c.Color = strings.TrimSpace(c.Color)
	if c.CustomerID != nil && strings.TrimSpace(*c.CustomerID) == "" {
		c.CustomerID = nil
	}
}
