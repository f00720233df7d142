package report

import (
	"context"
	"testing"
	"time"

	"github.com/automaster/automaster/internal/car"
	"github.com/automaster/automaster/internal/transaction"
)

type memStore struct {
	cars      []car.Car
	txs       []transaction.Transaction
	customers int64
}

func (m *memStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	return &Snapshot{
		Cars:           m.cars,
		Transactions:   m.txs,
		CustomersCount: m.customers,
	}, nil
}

func ptr(v int64) *int64 { return &v }

func TestComputeStats(t *testing.T) {
	store := &memStore{
		cars: []car.Car{
			{ID: "car-1", Price: 100000, CostPrice: 80000, Status: car.StatusSold},
			{ID: "car-2", Price: 90000, CostPrice: 70000, Status: car.StatusAvailable},
			{ID: "car-3", Price: 60000, CostPrice: 50000, Status: car.StatusReserved},
			{ID: "car-4", Price: 40000, CostPrice: 30000, Status: car.StatusMaintenance},
		},
		txs: []transaction.Transaction{
			{ID: "t1", CarID: "car-1", Status: transaction.StatusCompleted, Price: 100000, FinalPrice: ptr(95000), Date: time.Now()},
			{ID: "t2", CarID: "car-3", Status: transaction.StatusReserved, Price: 60000, Deposit: ptr(5000), Date: time.Now()},
			{ID: "t3", CarID: "car-x", Status: transaction.StatusCancelled, Price: 50000, Date: time.Now()},
		},
		customers: 7,
	}
	svc := NewService(store, nil)

	st, err := svc.ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}

	// 库存价值 = 在售 90000 + 已预定 60000
	if st.TotalInventoryValue != 150000 || st.TotalInventoryCount != 2 {
		t.Fatalf("inventory: value=%d count=%d", st.TotalInventoryValue, st.TotalInventoryCount)
	}
	// 营收按成交价，利润 = 95000 - 80000
	if st.TotalRevenue != 95000 || st.TotalProfit != 15000 || st.TotalSalesCount != 1 {
		t.Fatalf("sales: revenue=%d profit=%d count=%d", st.TotalRevenue, st.TotalProfit, st.TotalSalesCount)
	}
	// 15000/95000*100 = 15.789... -> 15.8
	if st.AvgProfitRate != 15.8 {
		t.Fatalf("expected rate 15.8, got %v", st.AvgProfitRate)
	}
	if st.TotalCustomersCount != 7 {
		t.Fatalf("expected 7 customers, got %d", st.TotalCustomersCount)
	}
	if st.AvailableCarsCount != 1 || st.ReservedCarsCount != 1 || st.MaintenanceCarsCount != 1 {
		t.Fatalf("status counts: %+v", st)
	}
	// 看板已售数量等于成交记录数
	if st.SoldCarsCount != 1 {
		t.Fatalf("expected soldCarsCount 1, got %d", st.SoldCarsCount)
	}
}

func TestComputeStatsDegradesMissingCarProfit(t *testing.T) {
	store := &memStore{
		txs: []transaction.Transaction{
			{ID: "t1", CarID: "gone", Status: transaction.StatusCompleted, Price: 50000, FinalPrice: ptr(48000), Date: time.Now()},
		},
	}
	svc := NewService(store, nil)

	st, err := svc.ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	// 车辆缺失：营收照算，利润按 0 计入
	if st.TotalRevenue != 48000 || st.TotalProfit != 0 {
		t.Fatalf("expected revenue without profit, got revenue=%d profit=%d", st.TotalRevenue, st.TotalProfit)
	}
	if st.AvgProfitRate != 0 {
		t.Fatalf("expected rate 0, got %v", st.AvgProfitRate)
	}
}

func TestComputeStatsFallsBackToAgreedPrice(t *testing.T) {
	store := &memStore{
		cars: []car.Car{{ID: "car-1", Price: 100000, CostPrice: 80000, Status: car.StatusSold}},
		txs: []transaction.Transaction{
			{ID: "t1", CarID: "car-1", Status: transaction.StatusCompleted, Price: 100000, Date: time.Now()},
		},
	}
	svc := NewService(store, nil)

	st, err := svc.ComputeStats(context.Background())
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if st.TotalRevenue != 100000 || st.TotalProfit != 20000 {
		t.Fatalf("expected agreed price fallback, got revenue=%d profit=%d", st.TotalRevenue, st.TotalProfit)
	}
}

func TestSalesTrendIncludesZeroMonths(t *testing.T) {
	now := time.Now()
	lastMonth := now.AddDate(0, -1, 0)
	store := &memStore{
		txs: []transaction.Transaction{
			{ID: "t1", Status: transaction.StatusCompleted, Price: 100000, FinalPrice: ptr(95000), Date: now},
			{ID: "t2", Status: transaction.StatusCompleted, Price: 60000, Date: lastMonth},
			{ID: "t3", Status: transaction.StatusReserved, Price: 50000, Deposit: ptr(5000), Date: now},
			// 窗口之外的成交不计入
			{ID: "t4", Status: transaction.StatusCompleted, Price: 70000, Date: now.AddDate(-1, 0, 0)},
		},
	}
	svc := NewService(store, nil)

	points, err := svc.SalesTrend(context.Background(), 6)
	if err != nil {
		t.Fatalf("SalesTrend: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 months, got %d", len(points))
	}

	last := points[5]
	if last.Count != 1 || last.Revenue != 95000 {
		t.Fatalf("current month: %+v", last)
	}
	prev := points[4]
	if prev.Count != 1 || prev.Revenue != 60000 {
		t.Fatalf("previous month: %+v", prev)
	}
	var total int64
	for _, p := range points {
		total += p.Revenue
		if p.Month == "" {
			t.Fatalf("expected month label, got %+v", p)
		}
	}
	// 空月份补零，窗口外的成交不计入
	if total != 155000 {
		t.Fatalf("expected window total 155000, got %d", total)
	}
}
