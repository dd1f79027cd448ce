package model

import (
	"errors"
	"testing"

	"streamshop/internal/domain"
)

func TestNewAccount(t *testing.T) {
	a, err := NewAccount("acc-1", " netflix ", "mail@x.com / pw / profile 2", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if a.Status != AccountStatusAvailable {
		t.Errorf("new account should be available, got %s", a.Status)
	}
	if a.Platform != "netflix" {
		t.Errorf("platform should be trimmed, got %q", a.Platform)
	}

	if _, err := NewAccount("acc-2", "netflix", "   ", ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank credential should fail validation, got: %v", err)
	}
}

func TestAccountClaimRelease(t *testing.T) {
	a, _ := NewAccount("acc-1", "netflix", "cred", "")

	if err := a.Claim("order-1"); err != nil {
		t.Fatalf("claiming an available account failed: %v", err)
	}
	if a.Status != AccountStatusAssigned || a.OrderID == nil || *a.OrderID != "order-1" {
		t.Error("claim should flip status and link the order")
	}

	if err := a.Claim("order-2"); !errors.Is(err, domain.ErrAccountAssigned) {
		t.Errorf("claiming an assigned account should fail, got: %v", err)
	}
	if err := a.Retire(); !errors.Is(err, domain.ErrAccountAssigned) {
		t.Errorf("retiring an assigned account should fail, got: %v", err)
	}

	a.Release()
	if a.Status != AccountStatusAvailable || a.OrderID != nil {
		t.Error("release should return the account to the pool")
	}
}

func TestAccountRetire(t *testing.T) {
	a, _ := NewAccount("acc-1", "netflix", "cred", "")
	if err := a.Retire(); err != nil {
		t.Fatalf("retiring an available account failed: %v", err)
	}
	if a.Status != AccountStatusRetired {
		t.Errorf("status should be retired, got %s", a.Status)
	}
	if err := a.Claim("order-1"); !errors.Is(err, domain.ErrAccountRetired) {
		t.Errorf("claiming a retired account should fail, got: %v", err)
	}
}
