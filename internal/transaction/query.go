package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/automaster/automaster/internal/common/apperr"
)

// SearchFilter 交易搜索条件，所有条件 AND 关系，零值表示不过滤。
type SearchFilter struct {
	Status          Status // 精确匹配
	OrderID         string // 交易ID，忽略大小写的子串匹配
	CarKeyword      string // 对 "{年份} {品牌} {型号}" 做忽略大小写的子串匹配
	CustomerKeyword string // 对 "{姓名} {手机号}" 做忽略大小写的子串匹配
	Price           *int64 // 精确匹配实际金额（见 effectivePrice）
	DateFrom        string // "2006-01-02"，含当天；格式非法则忽略该边界
	DateTo          string // "2006-01-02"，含当天
}

// Search 全量加载后内存过滤。
// 车辆/客户关键字给定时，关联信息缺失的记录视为不匹配。
func (s *Service) Search(ctx context.Context, f SearchFilter) ([]Transaction, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, apperr.Invalid("PARAM_ERROR", "无效的交易状态：%s", f.Status)
	}

	list, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	from, hasFrom := parseDay(f.DateFrom)
	to, hasTo := parseDay(f.DateTo)
	if hasTo {
		to = to.Add(24*time.Hour - time.Second)
	}

	out := make([]Transaction, 0, len(list))
	for _, t := range list {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.OrderID != "" && !containsFold(t.ID, f.OrderID) {
			continue
		}
		if f.CarKeyword != "" {
			if t.Car == nil {
				continue
			}
			label := fmt.Sprintf("%d %s %s", t.Car.Year, t.Car.Make, t.Car.Model)
			if !containsFold(label, f.CarKeyword) {
				continue
			}
		}
		if f.CustomerKeyword != "" {
			if t.Customer == nil {
				continue
			}
			label := t.Customer.Name + " " + t.Customer.Phone
			if !containsFold(label, f.CustomerKeyword) {
				continue
			}
		}
		if f.Price != nil && effectivePrice(&t) != *f.Price {
			continue
		}
		if hasFrom && t.Date.Before(from) {
			continue
		}
		if hasTo && t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// effectivePrice 搜索用的实际金额：
// 已成交按成交价（缺失时退回约定价），预定中按定金（缺失时退回约定价），
// 其余状态按约定价。
func effectivePrice(t *Transaction) int64 {
	switch t.Status {
	case StatusCompleted:
		if t.FinalPrice != nil {
			return *t.FinalPrice
		}
	case StatusReserved:
		if t.Deposit != nil {
			return *t.Deposit
		}
	}
	return t.Price
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
