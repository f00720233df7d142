package car

import (
	"testing"

	"github.com/automaster/automaster/internal/common/apperr"
)

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusAvailable, StatusReserved) {
		t.Fatalf("expected available -> reserved allowed")
	}
	if !CanTransition(StatusMaintenance, StatusSold) {
		t.Fatalf("expected maintenance -> sold allowed")
	}
	if CanTransition(StatusSold, StatusAvailable) {
		t.Fatalf("expected sold -> available not allowed")
	}
	if !CanTransition(StatusSold, StatusSold) {
		t.Fatalf("expected no-op transition allowed")
	}
}

func TestReserveSetsFields(t *testing.T) {
	c := &Car{Status: StatusAvailable}
	if err := Reserve(c, "cust-1", 5000); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if c.Status != StatusReserved {
		t.Fatalf("expected RESERVED, got %s", c.Status)
	}
	if c.CustomerID == nil || *c.CustomerID != "cust-1" {
		t.Fatalf("expected customer cust-1, got %v", c.CustomerID)
	}
	if c.Deposit == nil || *c.Deposit != 5000 {
		t.Fatalf("expected deposit 5000, got %v", c.Deposit)
	}
}

func TestReserveGuards(t *testing.T) {
	if err := Reserve(&Car{Status: StatusAvailable}, "", 5000); !apperr.IsKind(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid for missing customer, got %v", err)
	}
	if err := Reserve(&Car{Status: StatusAvailable}, "cust-1", 0); !apperr.IsKind(err, apperr.KindInvalid) {
		t.Fatalf("expected invalid for zero deposit, got %v", err)
	}
	if err := Reserve(&Car{Status: StatusSold}, "cust-1", 5000); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for sold car, got %v", err)
	}
}

func TestCancelReservationClearsFields(t *testing.T) {
	cust := "cust-1"
	deposit := int64(5000)
	c := &Car{Status: StatusReserved, CustomerID: &cust, Deposit: &deposit}
	if err := CancelReservation(c); err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	if c.Status != StatusAvailable || c.CustomerID != nil || c.Deposit != nil {
		t.Fatalf("expected clean AVAILABLE car, got %+v", c)
	}

	if err := CancelReservation(&Car{Status: StatusAvailable}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for non-reserved car, got %v", err)
	}
}

func TestCompleteReservationClearsFields(t *testing.T) {
	cust := "cust-1"
	deposit := int64(2000)
	c := &Car{Status: StatusReserved, CustomerID: &cust, Deposit: &deposit}
	if err := CompleteReservation(c); err != nil {
		t.Fatalf("CompleteReservation: %v", err)
	}
	if c.Status != StatusSold || c.CustomerID != nil || c.Deposit != nil {
		t.Fatalf("expected SOLD car with cleared reservation fields, got %+v", c)
	}
}

func TestMarkSold(t *testing.T) {
	c := &Car{Status: StatusAvailable}
	if err := MarkSold(c); err != nil {
		t.Fatalf("MarkSold: %v", err)
	}
	if c.Status != StatusSold {
		t.Fatalf("expected SOLD, got %s", c.Status)
	}

	if err := MarkSold(&Car{Status: StatusSold}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for already sold car, got %v", err)
	}
	if err := MarkSold(&Car{Status: StatusReserved}); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for reserved car, got %v", err)
	}
}

func TestValidateReservationFields(t *testing.T) {
	cust := "cust-1"
	deposit := int64(3000)

	if err := ValidateReservationFields(&Car{Status: StatusReserved, CustomerID: &cust, Deposit: &deposit}); err != nil {
		t.Fatalf("expected valid reserved car, got %v", err)
	}
	if err := ValidateReservationFields(&Car{Status: StatusReserved, CustomerID: &cust}); err == nil {
		t.Fatalf("expected error for reserved car without deposit")
	}
	if err := ValidateReservationFields(&Car{Status: StatusReserved, Deposit: &deposit}); err == nil {
		t.Fatalf("expected error for reserved car without customer")
	}
	if err := ValidateReservationFields(&Car{Status: StatusAvailable, Deposit: &deposit}); err == nil {
		t.Fatalf("expected error for available car carrying deposit")
	}
	if err := ValidateReservationFields(&Car{Status: StatusAvailable}); err != nil {
		t.Fatalf("expected valid available car, got %v", err)
	}
}
