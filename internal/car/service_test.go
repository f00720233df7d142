package car

import (
	"context"
	"sync"
	"testing"

	"github.com/automaster/automaster/internal/common/apperr"
)

// memStore 内存版 Store，仅测试用。
type memStore struct {
	mu   sync.Mutex
	cars map[string]Car
}

func newMemStore() *memStore {
	return &memStore{cars: make(map[string]Car)}
}

func (m *memStore) Create(ctx context.Context, c *Car) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cars[c.ID] = *c
	return nil
}

func (m *memStore) Save(ctx context.Context, c *Car) error {
	return m.Create(ctx, c)
}

func (m *memStore) FindByID(ctx context.Context, id string) (*Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.cars[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindByVIN(ctx context.Context, vin string) (*Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cars {
		if c.VIN == vin {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) List(ctx context.Context) ([]Car, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Car, 0, len(m.cars))
	for _, c := range m.cars {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) ListByStatus(ctx context.Context, st Status) ([]Car, error) {
	all, _ := m.List(ctx)
	out := make([]Car, 0)
	for _, c := range all {
		if c.Status == st {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cars, id)
	return nil
}

// fixedRefs 固定引用数的 RefCounter。
type fixedRefs struct{ n int64 }

func (f fixedRefs) CountByCarID(ctx context.Context, carID string) (int64, error) {
	return f.n, nil
}

func validCar() *Car {
	return &Car{
		Make:      "Toyota",
		Model:     "Camry",
		Year:      2020,
		Price:     100000,
		CostPrice: 80000,
		Mileage:   30000,
		Color:     "白色",
		VIN:       "LFV3A23C993000001",
	}
}

func TestCreateDefaultsToAvailable(t *testing.T) {
	svc := NewService(newMemStore(), fixedRefs{})
	saved, err := svc.Create(context.Background(), validCar())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated id")
	}
	if saved.Status != StatusAvailable {
		t.Fatalf("expected AVAILABLE, got %s", saved.Status)
	}
}

func TestCreateRejectsDuplicateVIN(t *testing.T) {
	svc := NewService(newMemStore(), fixedRefs{})
	ctx := context.Background()
	if _, err := svc.Create(ctx, validCar()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, validCar())
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate vin, got %v", err)
	}
}

func TestCreateReservedRequiresCustomerAndDeposit(t *testing.T) {
	svc := NewService(newMemStore(), fixedRefs{})
	ctx := context.Background()

	c := validCar()
	c.Status = StatusReserved
	if _, err := svc.Create(ctx, c); !apperr.IsKind(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid for reserved car without customer/deposit, got %v", err)
	}

	cust := "cust-1"
	deposit := int64(5000)
	c2 := validCar()
	c2.VIN = "LFV3A23C993000002"
	c2.Status = StatusReserved
	c2.CustomerID = &cust
	c2.Deposit = &deposit
	saved, err := svc.Create(ctx, c2)
	if err != nil {
		t.Fatalf("Create reserved: %v", err)
	}
	if saved.Status != StatusReserved {
		t.Fatalf("expected RESERVED, got %s", saved.Status)
	}
}

func TestUpdateKeepsDateAddedAndChecksTransition(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, fixedRefs{})
	ctx := context.Background()

	saved, err := svc.Create(ctx, validCar())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 合法状态流转：AVAILABLE -> MAINTENANCE
	in := *saved
	in.Status = StatusMaintenance
	updated, err := svc.Update(ctx, saved.ID, &in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusMaintenance {
		t.Fatalf("expected MAINTENANCE, got %s", updated.Status)
	}
	if !updated.DateAdded.Equal(saved.DateAdded) {
		t.Fatalf("expected date_added preserved")
	}

	// 非法状态流转：先置 SOLD，再试图改回 AVAILABLE
	in2 := *updated
	in2.Status = StatusSold
	if _, err := svc.Update(ctx, saved.ID, &in2); err != nil {
		t.Fatalf("Update to sold: %v", err)
	}
	in3 := in2
	in3.Status = StatusAvailable
	if _, err := svc.Update(ctx, saved.ID, &in3); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for sold -> available, got %v", err)
	}
}

func TestUpdateVINDuplicateExcludesSelf(t *testing.T) {
	svc := NewService(newMemStore(), fixedRefs{})
	ctx := context.Background()

	a, err := svc.Create(ctx, validCar())
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b := validCar()
	b.VIN = "LFV3A23C993000002"
	bSaved, err := svc.Create(ctx, b)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	// 自身 VIN 不算重复
	if _, err := svc.Update(ctx, a.ID, a); err != nil {
		t.Fatalf("update with own vin: %v", err)
	}

	// 占用他人 VIN 报冲突
	in := *bSaved
	in.VIN = a.VIN
	if _, err := svc.Update(ctx, bSaved.ID, &in); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate vin, got %v", err)
	}
}

func TestDeleteBlockedWhenReferenced(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	svc := NewService(store, fixedRefs{n: 1})
	saved, err := svc.Create(ctx, validCar())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, saved.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for referenced car, got %v", err)
	}

	// 无引用时允许删除
	free := NewService(store, fixedRefs{n: 0})
	if err := free.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := store.FindByID(ctx, saved.ID); got != nil {
		t.Fatalf("expected car deleted")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewService(newMemStore(), fixedRefs{})
	_, err := svc.GetByID(context.Background(), "missing")
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCheckVIN(t *testing.T) {
	svc := NewService(newMemStore(), fixedRefs{})
	ctx := context.Background()
	saved, err := svc.Create(ctx, validCar())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := svc.CheckVIN(ctx, saved.VIN, "")
	if err != nil || !exists {
		t.Fatalf("expected vin exists, got exists=%v err=%v", exists, err)
	}
	exists, err = svc.CheckVIN(ctx, saved.VIN, saved.ID)
	if err != nil || exists {
		t.Fatalf("expected vin free when excluding self, got exists=%v err=%v", exists, err)
	}
	exists, err = svc.CheckVIN(ctx, "UNKNOWNVIN", "")
	if err != nil || exists {
		t.Fatalf("expected unknown vin free, got exists=%v err=%v", exists, err)
	}
}
