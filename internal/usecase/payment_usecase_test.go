package usecase

import (
	"context"
	"errors"
	"testing"

	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/infrastructure/momo"

	"github.com/shopspring/decimal"
)

func (f *fixture) order(t *testing.T, userID int64, pharmacyID *int64, status entity.OrderStatus) entity.Order {
	t.Helper()
	o := &entity.Order{UserID: userID, PharmacyID: pharmacyID, Status: status}
	if err := f.orders.Create(context.Background(), o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return *o
}

func TestPaymentUsecase_RequestToPay(t *testing.T) {
	f := newFixture()
	u := f.customer(t, "aline@example.rw", -1.95, 30.06)
	o := f.order(t, u.ID, nil, entity.OrderStatusPending)

	t.Run("gateway failure records nothing", func(t *testing.T) {
		gw := &fakeGateway{payErr: momo.ErrGateway}
		uc := NewPaymentUsecase(f.log, f.tx, f.orders, f.payments, f.audit, gw, "")

		_, err := uc.RequestToPay(context.Background(), u.ID, &dto.PaymentRequest{
			OrderID: o.ID, Amount: decimal.NewFromInt(3500), Payer: "250788123456",
		})
		if !errors.Is(err, ErrPaymentGateway) {
			t.Fatalf("error = %v, want ErrPaymentGateway", err)
		}
		if actions := f.auditActions(t); len(actions) != 0 {
			t.Fatalf("audit actions = %v, want none", actions)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		gw := &fakeGateway{}
		uc := NewPaymentUsecase(f.log, f.tx, f.orders, f.payments, f.audit, gw, "RWF")

		_, err := uc.RequestToPay(context.Background(), u.ID, &dto.PaymentRequest{
			OrderID: 404, Amount: decimal.NewFromInt(1), Payer: "250788123456",
		})
		if !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("error = %v, want ErrOrderNotFound", err)
		}
		if len(gw.requests) != 0 {
			t.Fatal("gateway must not be called for an unknown order")
		}
	})

	t.Run("success records a pending payment", func(t *testing.T) {
		gw := &fakeGateway{}
		uc := NewPaymentUsecase(f.log, f.tx, f.orders, f.payments, f.audit, gw, "")

		resp, err := uc.RequestToPay(context.Background(), u.ID, &dto.PaymentRequest{
			OrderID: o.ID, Amount: decimal.NewFromInt(3500), Payer: " 250788123456 ",
		})
		if err != nil {
			t.Fatalf("RequestToPay: %v", err)
		}
		if resp.Status != string(entity.PaymentStatusPending) || resp.ReferenceID == "" {
			t.Fatalf("response = %+v", resp)
		}

		if len(gw.requests) != 1 {
			t.Fatalf("gateway requests = %d", len(gw.requests))
		}
		sent := gw.requests[0]
		if sent.ReferenceID != resp.ReferenceID || sent.Currency != "RWF" || sent.Payer != "250788123456" {
			t.Fatalf("gateway request = %+v", sent)
		}
		if sent.ExternalID != "1" {
			t.Fatalf("external id = %q, want order id", sent.ExternalID)
		}

		stored, err := f.payments.FindByReferenceID(context.Background(), resp.ReferenceID)
		if err != nil || stored == nil {
			t.Fatalf("stored payment = %v, %v", stored, err)
		}
		if stored.Status != entity.PaymentStatusPending || !stored.Amount.Equal(decimal.NewFromInt(3500)) {
			t.Fatalf("stored payment = %+v", stored)
		}

		actions := f.auditActions(t)
		if len(actions) != 1 || actions[0] != entity.AuditActionPaymentRequest {
			t.Fatalf("audit actions = %v", actions)
		}
	})
}

func TestPaymentUsecase_CheckStatus(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		want   entity.PaymentStatus
	}{
		{"successful", "SUCCESSFUL", entity.PaymentStatusSuccessful},
		{"still pending", "PENDING", entity.PaymentStatusPending},
		{"rejected folds to failed", "REJECTED", entity.PaymentStatusFailed},
		{"timeout folds to failed", "TIMEOUT", entity.PaymentStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			u := f.customer(t, "aline@example.rw", -1.95, 30.06)
			o := f.order(t, u.ID, nil, entity.OrderStatusPending)
			gw := &fakeGateway{status: tt.remote}
			uc := NewPaymentUsecase(f.log, f.tx, f.orders, f.payments, f.audit, gw, "RWF")

			initiated, err := uc.RequestToPay(context.Background(), u.ID, &dto.PaymentRequest{
				OrderID: o.ID, Amount: decimal.NewFromInt(900), Payer: "250788123456", Currency: "rwf",
			})
			if err != nil {
				t.Fatalf("RequestToPay: %v", err)
			}

			status, err := uc.CheckStatus(context.Background(), initiated.ReferenceID)
			if err != nil {
				t.Fatalf("CheckStatus: %v", err)
			}
			if status.Status != string(tt.want) || status.OrderID != o.ID || status.Currency != "RWF" {
				t.Fatalf("status = %+v, want %s", status, tt.want)
			}

			stored, _ := f.payments.FindByReferenceID(context.Background(), initiated.ReferenceID)
			if stored.Status != tt.want {
				t.Fatalf("stored status = %s, want %s", stored.Status, tt.want)
			}
		})
	}
}

func TestPaymentUsecase_CheckStatusErrors(t *testing.T) {
	f := newFixture()
	u := f.customer(t, "aline@example.rw", -1.95, 30.06)
	o := f.order(t, u.ID, nil, entity.OrderStatusPending)
	gw := &fakeGateway{}
	uc := NewPaymentUsecase(f.log, f.tx, f.orders, f.payments, f.audit, gw, "RWF")

	if _, err := uc.CheckStatus(context.Background(), "missing"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("unknown reference error = %v", err)
	}

	initiated, err := uc.RequestToPay(context.Background(), u.ID, &dto.PaymentRequest{
		OrderID: o.ID, Amount: decimal.NewFromInt(900), Payer: "250788123456",
	})
	if err != nil {
		t.Fatalf("RequestToPay: %v", err)
	}

	gw.statusErr = momo.ErrNotFound
	if _, err := uc.CheckStatus(context.Background(), initiated.ReferenceID); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("gateway not found error = %v", err)
	}

	gw.statusErr = momo.ErrGateway
	if _, err := uc.CheckStatus(context.Background(), initiated.ReferenceID); !errors.Is(err, ErrPaymentGateway) {
		t.Fatalf("gateway failure error = %v", err)
	}
}
