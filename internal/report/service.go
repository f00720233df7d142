package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/automaster/automaster/internal/car"
	"github.com/automaster/automaster/internal/common/logger"
	"github.com/automaster/automaster/internal/transaction"
)

// Stats 经营看板统计。金额单位与业务数据一致（元）。
type Stats struct {
	TotalInventoryValue  int64   `json:"totalInventoryValue"`
	TotalInventoryCount  int64   `json:"totalInventoryCount"`
	TotalRevenue         int64   `json:"totalRevenue"`
	TotalSalesCount      int64   `json:"totalSalesCount"`
	TotalProfit          int64   `json:"totalProfit"`
	AvgProfitRate        float64 `json:"avgProfitRate"`
	TotalCustomersCount  int64   `json:"totalCustomersCount"`
	AvailableCarsCount   int64   `json:"availableCarsCount"`
	SoldCarsCount        int64   `json:"soldCarsCount"`
	ReservedCarsCount    int64   `json:"reservedCarsCount"`
	MaintenanceCarsCount int64   `json:"maintenanceCarsCount"`
}

// TrendPoint 销售趋势的单月数据。
type TrendPoint struct {
	Month   string `json:"month"` // "3月" 风格的月份标签
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"`
}

type Service struct {
	store Store
	log   logger.Logger
}

func NewService(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// ComputeStats 计算看板统计。
// 库存价值只算在售与已预定车辆的挂牌价；营收/利润只看已成交交易，
// 成交价缺失退回约定价；车辆信息已删除的成交记录利润按 0 计并告警。
func (s *Service) ComputeStats(ctx context.Context) (*Stats, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cars, txs := snap.Cars, snap.Transactions

	st := &Stats{TotalCustomersCount: snap.CustomersCount}

	carByID := make(map[string]*car.Car, len(cars))
	for i := range cars {
		c := &cars[i]
		carByID[c.ID] = c
		switch c.Status {
		case car.StatusAvailable:
			st.AvailableCarsCount++
		case car.StatusReserved:
			st.ReservedCarsCount++
		case car.StatusMaintenance:
			st.MaintenanceCarsCount++
		}
		if c.Status == car.StatusAvailable || c.Status == car.StatusReserved {
			st.TotalInventoryValue += c.Price
			st.TotalInventoryCount++
		}
	}

	for i := range txs {
		t := &txs[i]
		if t.Status != transaction.StatusCompleted {
			continue
		}
		st.TotalSalesCount++
		revenue := t.Price
		if t.FinalPrice != nil {
			revenue = *t.FinalPrice
		}
		st.TotalRevenue += revenue

		c, ok := carByID[t.CarID]
		if !ok {
			if s.log != nil {
				s.log.WithFields(map[string]interface{}{
					"transaction_id": t.ID,
					"car_id":         t.CarID,
				}).Warn("成交记录关联车辆缺失，利润按0计入")
			}
			continue
		}
		st.TotalProfit += revenue - c.CostPrice
	}
	// 看板上的已售数量跟随成交记录数，而不是车辆表里的 SOLD 行数
	st.SoldCarsCount = st.TotalSalesCount

	if st.TotalRevenue > 0 {
		rate := float64(st.TotalProfit) / float64(st.TotalRevenue) * 100
		st.AvgProfitRate = math.Round(rate*10) / 10
	}
	return st, nil
}

// SalesTrend 最近 months 个月（含当月）的成交趋势，没有成交的月份补零。
func (s *Service) SalesTrend(ctx context.Context, months int) ([]TrendPoint, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if months <= 0 {
		months = 6
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	txs := snap.Transactions

	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)

	points := make([]TrendPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i-months+1, 0)
		points[i] = TrendPoint{Month: fmt.Sprintf("%d月", int(m.Month()))}
		index[m.Format("2006-01")] = i
	}

	for i := range txs {
		t := &txs[i]
		if t.Status != transaction.StatusCompleted {
			continue
		}
		idx, ok := index[t.Date.Format("2006-01")]
		if !ok {
			continue
		}
		revenue := t.Price
		if t.FinalPrice != nil {
			revenue = *t.FinalPrice
		}
		points[idx].Count++
		points[idx].Revenue += revenue
	}
	return points, nil
}
