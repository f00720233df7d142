package transaction

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/automaster/automaster/internal/car"
	"github.com/automaster/automaster/internal/customer"
	"github.com/automaster/automaster/internal/user"
)

// Store 交易持久化接口。
// 销售流程需要在同一个事务里同时改车辆与交易记录，因此接口带 InTx：
// fn 内拿到的 Store 绑定在事务上，fn 返回错误则整体回滚。
// 查询方法在记录不存在时返回 (nil, nil)。
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	// CarForUpdate 锁定车辆行后返回（事务内为 SELECT ... FOR UPDATE）。
	CarForUpdate(ctx context.Context, id string) (*car.Car, error)
	SaveCar(ctx context.Context, c *car.Car) error
	ListCars(ctx context.Context) ([]car.Car, error)

	CustomerExists(ctx context.Context, id string) (bool, error)
	ListCustomers(ctx context.Context) ([]customer.Customer, error)
	UserExists(ctx context.Context, id string) (bool, error)

	Create(ctx context.Context, t *Transaction) error
	Save(ctx context.Context, t *Transaction) error
	FindByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	FindOpenByCarID(ctx context.Context, carID string) (*Transaction, error)
	CountByCarID(ctx context.Context, carID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// GormStore MySQL 实现。同时实现 car.RefCounter（CountByCarID）。
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) withCtx(ctx context.Context) *gorm.DB {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx)
}

func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CarForUpdate(ctx context.Context, id string) (*car.Car, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var c car.Car
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *GormStore) SaveCar(ctx context.Context, c *car.Car) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Save(c).Error
}

func (s *GormStore) ListCars(ctx context.Context) ([]car.Car, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var out []car.Car
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CustomerExists(ctx context.Context, id string) (bool, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("store db is nil")
	}
	var n int64
	if err := db.Model(&customer.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var out []customer.Customer
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) UserExists(ctx context.Context, id string) (bool, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("store db is nil")
	}
	var n int64
	if err := db.Model(&user.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) Create(ctx context.Context, t *Transaction) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Create(t).Error
}

func (s *GormStore) Save(ctx context.Context, t *Transaction) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Save(t).Error
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*Transaction, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var t Transaction
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) List(ctx context.Context) ([]Transaction, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var out []Transaction
	if err := db.Order("date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindOpenByCarID 查询车辆当前进行中的预定单（最多一条）。
func (s *GormStore) FindOpenByCarID(ctx context.Context, carID string) (*Transaction, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("store db is nil")
	}
	var t Transaction
	err := db.Where("car_id = ? AND status = ?", carID, StatusReserved).
		Order("created_at DESC").First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *GormStore) CountByCarID(ctx context.Context, carID string) (int64, error) {
	db := s.withCtx(ctx)
	if db == nil {
		return 0, fmt.Errorf("store db is nil")
	}
	var n int64
	if err := db.Model(&Transaction{}).Where("car_id = ?", carID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	db := s.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("store db is nil")
	}
	return db.Where("id = ?", id).Delete(&Transaction{}).Error
}
