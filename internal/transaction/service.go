package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/automaster/automaster/internal/car"
	"github.com/automaster/automaster/internal/common/apperr"
	"github.com/google/uuid"
)

// Service 销售流程：直售、预定、取消预定、完成预定。
// 所有改车辆状态的操作都在事务里锁定车辆行后执行，
// 并发请求只有一个能成功，失败方拿到状态冲突错误。
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetAll 交易列表（按日期倒序），附带车辆与客户快照。
func (s *Service) GetAll(ctx context.Context) ([]Transaction, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "交易ID不能为空")
	}
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("TRANSACTION_NOT_FOUND", "交易记录不存在")
	}
	one := []Transaction{*t}
	if err := s.enrich(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// DirectSaleInput 直售入参。Price 为 0 时按车辆挂牌价成交。
type DirectSaleInput struct {
	CarID           string     `json:"carId"`
	CustomerID      string     `json:"customerId"`
	Price           int64      `json:"price"`
	Date            *time.Time `json:"date"`
	HandledByUserID *string    `json:"handledByUserId"`
}

// CreateDirectSale 直售：车辆直接 -> SOLD，生成 COMPLETED 交易记录。
// 预定中的车辆拒绝直售，必须先走完成/取消预定。
func (s *Service) CreateDirectSale(ctx context.Context, in *DirectSaleInput) (*Transaction, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if in == nil || strings.TrimSpace(in.CarID) == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "车辆ID不能为空")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, apperr.Invalid("CUSTOMER_REQUIRED", "交易必须关联客户")
	}

	var created *Transaction
	err := s.store.InTx(ctx, func(tx Store) error {
		c, err := tx.CarForUpdate(ctx, in.CarID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFound("CAR_NOT_FOUND", "车辆ID不存在")
		}
		if err := car.MarkSold(c); err != nil {
			return err
		}

		ok, err := tx.CustomerExists(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("CUSTOMER_NOT_FOUND", "客户不存在")
		}
		if in.HandledByUserID != nil && strings.TrimSpace(*in.HandledByUserID) != "" {
			ok, err := tx.UserExists(ctx, *in.HandledByUserID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict("USER_NOT_FOUND", "经手人不存在")
			}
		} else {
			in.HandledByUserID = nil
		}

		price := in.Price
		if price <= 0 {
			price = c.Price
		}
		date := time.Now()
		if in.Date != nil && !in.Date.IsZero() {
			date = *in.Date
		}

		final := price
		created = &Transaction{
			ID:              uuid.NewString(),
			CarID:           c.ID,
			CustomerID:      in.CustomerID,
			Price:           price,
			FinalPrice:      &final,
			Status:          StatusCompleted,
			Date:            date,
			HandledByUserID: in.HandledByUserID,
		}
		if err := tx.SaveCar(ctx, c); err != nil {
			return err
		}
		return tx.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReserveInput 预定入参。AskingPrice 为 0 时约定价按车辆挂牌价。
type ReserveInput struct {
	CustomerID      string  `json:"customerId"`
	Deposit         int64   `json:"deposit"`
	AskingPrice     int64   `json:"askingPrice"`
	HandledByUserID *string `json:"handledByUserId"`
}

// Reserve 预定：车辆 -> RESERVED，生成 RESERVED 交易记录（预定单）。
func (s *Service) Reserve(ctx context.Context, carID string, in *ReserveInput) (*Transaction, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(carID) == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "车辆ID不能为空")
	}
	if in == nil {
		return nil, apperr.Invalid("PARAM_ERROR", "预定信息不能为空")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, apperr.Invalid("CUSTOMER_REQUIRED", "预定必须关联客户")
	}

	var created *Transaction
	err := s.store.InTx(ctx, func(tx Store) error {
		c, err := tx.CarForUpdate(ctx, carID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFound("CAR_NOT_FOUND", "车辆ID不存在")
		}

		ok, err := tx.CustomerExists(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("CUSTOMER_NOT_FOUND", "客户不存在")
		}
		if in.HandledByUserID != nil && strings.TrimSpace(*in.HandledByUserID) != "" {
			ok, err := tx.UserExists(ctx, *in.HandledByUserID)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict("USER_NOT_FOUND", "经手人不存在")
			}
		} else {
			in.HandledByUserID = nil
		}

		if err := car.Reserve(c, in.CustomerID, in.Deposit); err != nil {
			return err
		}

		price := in.AskingPrice
		if price <= 0 {
			price = c.Price
		}
		deposit := in.Deposit
		created = &Transaction{
			ID:              uuid.NewString(),
			CarID:           c.ID,
			CustomerID:      in.CustomerID,
			Price:           price,
			Deposit:         &deposit,
			Status:          StatusReserved,
			Date:            time.Now(),
			HandledByUserID: in.HandledByUserID,
		}
		if err := tx.SaveCar(ctx, c); err != nil {
			return err
		}
		return tx.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CancelReservation 取消预定：车辆回到 AVAILABLE，预定单标记 CANCELLED 留痕。
func (s *Service) CancelReservation(ctx context.Context, carID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(carID) == "" {
		return apperr.Invalid("PARAM_ERROR", "车辆ID不能为空")
	}

	return s.store.InTx(ctx, func(tx Store) error {
		c, err := tx.CarForUpdate(ctx, carID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFound("CAR_NOT_FOUND", "车辆ID不存在")
		}
		if err := car.CancelReservation(c); err != nil {
			return err
		}
		if err := tx.SaveCar(ctx, c); err != nil {
			return err
		}

		open, err := tx.FindOpenByCarID(ctx, carID)
		if err != nil {
			return err
		}
		if open != nil {
			open.Status = StatusCancelled
			if err := tx.Save(ctx, open); err != nil {
				return err
			}
		}
		return nil
	})
}

// CompleteReservation 完成预定：预定单转 COMPLETED 并落成交价，车辆 -> SOLD。
// handledBy 非空时覆盖预定单上的经手人。
func (s *Service) CompleteReservation(ctx context.Context, carID string, finalPrice int64, handledBy *string) (*Transaction, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	if strings.TrimSpace(carID) == "" {
		return nil, apperr.Invalid("PARAM_ERROR", "车辆ID不能为空")
	}
	if finalPrice <= 0 {
		return nil, apperr.Invalid("PARAM_ERROR", "成交价必须大于0")
	}

	var completed *Transaction
	err := s.store.InTx(ctx, func(tx Store) error {
		c, err := tx.CarForUpdate(ctx, carID)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFound("CAR_NOT_FOUND", "车辆ID不存在")
		}
		// 先过状态机：非预定状态直接报冲突，而不是预定单不存在
		if err := car.CompleteReservation(c); err != nil {
			return err
		}

		open, err := tx.FindOpenByCarID(ctx, carID)
		if err != nil {
			return err
		}
		if open == nil {
			return apperr.NotFound("TRANSACTION_NOT_FOUND", "该车辆没有进行中的预定单")
		}
		if handledBy != nil && strings.TrimSpace(*handledBy) != "" {
			ok, err := tx.UserExists(ctx, *handledBy)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict("USER_NOT_FOUND", "经手人不存在")
			}
			open.HandledByUserID = handledBy
		}

		open.Status = StatusCompleted
		open.FinalPrice = &finalPrice
		open.Date = time.Now()
		if err := tx.SaveCar(ctx, c); err != nil {
			return err
		}
		if err := tx.Save(ctx, open); err != nil {
			return err
		}
		completed = open
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// Delete 删除交易记录。只删流水，不回滚车辆状态。
func (s *Service) Delete(ctx context.Context, id string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.NotFound("TRANSACTION_NOT_FOUND", "交易记录不存在")
	}
	return s.store.Delete(ctx, id)
}

// enrich 填充交易上的车辆/客户快照（单次全量加载后内存关联）。
func (s *Service) enrich(ctx context.Context, list []Transaction) error {
	if len(list) == 0 {
		return nil
	}
	cars, err := s.store.ListCars(ctx)
	if err != nil {
		return err
	}
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return err
	}

	carByID := make(map[string]*car.Car, len(cars))
	for i := range cars {
		carByID[cars[i].ID] = &cars[i]
	}
	customerByID := make(map[string]int, len(customers))
	for i := range customers {
		customerByID[customers[i].ID] = i
	}

	for i := range list {
		if c, ok := carByID[list[i].CarID]; ok {
			list[i].Car = c
		}
		if idx, ok := customerByID[list[i].CustomerID]; ok {
			list[i].Customer = &customers[idx]
		}
	}
	return nil
}
