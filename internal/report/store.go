package report

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/automaster/automaster/internal/car"
	"github.com/automaster/automaster/internal/customer"
	"github.com/automaster/automaster/internal/transaction"
)

// Snapshot 看板计算用的一致性数据快照：
// 车辆、交易、客户数必须来自同一时刻，否则一笔刚成交的车
// 会同时出现在库存价值和销售营收里。
type Snapshot struct {
	Cars           []car.Car
	Transactions   []transaction.Transaction
	CustomersCount int64
}

// Store 报表聚合的只读数据源。
type Store interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// GormStore 看板数据源的 MySQL 实现。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Snapshot 三张表的读取放在同一个事务里，
// REPEATABLE READ 下拿到同一个读视图。
func (s *GormStore) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	snap := &Snapshot{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Find(&snap.Cars).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.Transactions).Error; err != nil {
			return err
		}
		return tx.Model(&customer.Customer{}).Count(&snap.CustomersCount).Error
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
