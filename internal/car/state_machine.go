package car

import (
	"strings"

	"github.com/automaster/automaster/internal/common/apperr"
)

// AllowTransition 定义车辆状态机的允许流转关系。
// SOLD 为终态：售出后的车辆不再参与任何状态流转。
var AllowTransition = map[Status][]Status{
	StatusAvailable:   {StatusReserved, StatusSold, StatusMaintenance},
	StatusMaintenance: {StatusReserved, StatusSold, StatusAvailable},
	StatusReserved:    {StatusAvailable, StatusSold},
	StatusSold:        {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
// from == to 视为无状态变化的普通更新，放行。
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Reserve 预定：AVAILABLE|MAINTENANCE -> RESERVED。
// 必须带有效客户与大于 0 的定金，两个字段一并落到车辆行上。
func Reserve(c *Car, customerID string, deposit int64) error {
	if c == nil {
		return apperr.Invalid("PARAM_ERROR", "车辆为空")
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return apperr.Invalid("CUSTOMER_REQUIRED", "预定必须关联客户")
	}
	if deposit <= 0 {
		return apperr.Invalid("DEPOSIT_REQUIRED", "预定必须填写有效定金金额")
	}
	if c.Status != StatusAvailable && c.Status != StatusMaintenance {
		return apperr.Conflict("ILLEGAL_STATUS", "当前状态 %s 不允许预定", c.Status)
	}

	c.Status = StatusReserved
	c.CustomerID = &customerID
	c.Deposit = &deposit
	return nil
}

// CancelReservation 取消预定：RESERVED -> AVAILABLE，清空客户与定金。
func CancelReservation(c *Car) error {
	if c == nil {
		return apperr.Invalid("PARAM_ERROR", "车辆为空")
	}
	if c.Status != StatusReserved {
		return apperr.Conflict("ILLEGAL_STATUS", "只有预定状态的车辆才能变回在售")
	}

	c.Status = StatusAvailable
	c.CustomerID = nil
	c.Deposit = nil
	return nil
}

// CompleteReservation 完成预定：RESERVED -> SOLD。
// 客户/定金属于销售前的暂存数据，成交时从车辆行上清掉（交易记录自带这些信息）。
func CompleteReservation(c *Car) error {
	if c == nil {
		return apperr.Invalid("PARAM_ERROR", "车辆为空")
	}
	if c.Status != StatusReserved {
		return apperr.Conflict("ILLEGAL_STATUS", "只有预定状态的车辆才能完成销售")
	}

	c.Status = StatusSold
	c.CustomerID = nil
	c.Deposit = nil
	return nil
}

// MarkSold 直售：AVAILABLE|MAINTENANCE -> SOLD，不触碰车辆上的客户/定金字段。
// 预定中的车辆不允许直售（先完成或取消预定），避免留下悬空的预定订单。
func MarkSold(c *Car) error {
	if c == nil {
		return apperr.Invalid("PARAM_ERROR", "车辆为空")
	}
	switch c.Status {
	case StatusSold:
		return apperr.Conflict("CAR_SOLD", "该车辆已售出，无法创建交易")
	case StatusReserved:
		return apperr.Conflict("CAR_RESERVED", "该车辆已被预定，请先完成或取消预定")
	}

	c.Status = StatusSold
	return nil
}

// ValidateReservationFields 校验预定字段与状态的一致性：
// RESERVED 当且仅当 客户ID 非空 且 定金 > 0；其余状态两个字段必须为空。
func ValidateReservationFields(c *Car) error {
	if c == nil {
		return apperr.Invalid("PARAM_ERROR", "车辆为空")
	}
	if c.Status == StatusReserved {
		if c.CustomerID == nil || strings.TrimSpace(*c.CustomerID) == "" {
			return apperr.Invalid("CUSTOMER_REQUIRED", "预定状态必须关联客户")
		}
		if c.Deposit == nil || *c.Deposit <= 0 {
			return apperr.Invalid("DEPOSIT_REQUIRED", "预定状态必须填写有效定金金额")
		}
		return nil
	}
	if c.CustomerID != nil || c.Deposit != nil {
		return apperr.Invalid("PARAM_ERROR", "非预定状态不允许携带客户/定金信息")
	}
	return nil
}
