package customer

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/automaster/automaster/internal/common/apperr"
)

type memStore struct {
	mu        sync.Mutex
	customers map[string]Customer
}

func newMemStore() *memStore {
	return &memStore{customers: make(map[string]Customer)}
}

func (m *memStore) Create(ctx context.Context, c *Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = *c
	return nil
}

func (m *memStore) Save(ctx context.Context, c *Customer) error {
	return m.Create(ctx, c)
}

func (m *memStore) FindByID(ctx context.Context, id string) (*Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.customers[id]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindByPhone(ctx context.Context, phone string) (*Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Phone == phone {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) List(ctx context.Context) ([]Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) Search(ctx context.Context, keyword string) ([]Customer, error) {
	all, _ := m.List(ctx)
	kw := strings.ToLower(keyword)
	out := make([]Customer, 0)
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), kw) || strings.Contains(c.Phone, keyword) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.customers, id)
	return nil
}

func validCustomer() *Customer {
	return &Customer{Name: "张三", Phone: "13800138000"}
}

func TestCreateDefaults(t *testing.T) {
	svc := NewService(newMemStore())
	saved, err := svc.Create(context.Background(), validCustomer())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated id")
	}
	if saved.Type != TypeBuyer {
		t.Fatalf("expected default type Buyer, got %s", saved.Type)
	}
	if saved.Status != StatusActive {
		t.Fatalf("expected default status ACTIVE, got %s", saved.Status)
	}
}

func TestCreateRequiresNameAndPhone(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &Customer{Phone: "13800138000"}); !apperr.IsKind(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid for missing name, got %v", err)
	}
	if _, err := svc.Create(ctx, &Customer{Name: "张三"}); !apperr.IsKind(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid for missing phone, got %v", err)
	}
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()
	if _, err := svc.Create(ctx, validCustomer()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	dup := validCustomer()
	dup.Name = "李四"
	_, err := svc.Create(ctx, dup)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate phone, got %v", err)
	}
}

func TestUpdatePhoneUniqueExcludesSelf(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	a, err := svc.Create(ctx, validCustomer())
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b := validCustomer()
	b.Name = "李四"
	b.Phone = "13900139000"
	bSaved, err := svc.Create(ctx, b)
	if err != nil {
		t.Fatalf("create b: %v", err)
	}

	// 保留自己的手机号允许更新
	updated, err := svc.Update(ctx, a.ID, a)
	if err != nil {
		t.Fatalf("update with own phone: %v", err)
	}
	if !updated.DateAdded.Equal(a.DateAdded) {
		t.Fatalf("expected date_added preserved")
	}

	// 占用他人手机号报冲突
	in := *bSaved
	in.Phone = a.Phone
	if _, err := svc.Update(ctx, bSaved.ID, &in); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate phone, got %v", err)
	}
}

func TestListWithKeyword(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, &Customer{Name: "张三", Phone: "13800138000"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, &Customer{Name: "李四", Phone: "13900139000"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	byName, err := svc.List(ctx, "张")
	if err != nil || len(byName) != 1 || byName[0].Name != "张三" {
		t.Fatalf("expected single match by name, got %v err=%v", byName, err)
	}
	byPhone, err := svc.List(ctx, "139001")
	if err != nil || len(byPhone) != 1 || byPhone[0].Name != "李四" {
		t.Fatalf("expected single match by phone, got %v err=%v", byPhone, err)
	}
	all, err := svc.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected all customers, got %v err=%v", all, err)
	}
}

func TestDeleteMissingCustomer(t *testing.T) {
	svc := NewService(newMemStore())
	if err := svc.Delete(context.Background(), "missing"); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
