package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/repository/memory"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAuditService_WritesMetadata(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewAuditLogRepository(store)
	audit := NewAuditService(quietLogger(), repo)

	userID := int64(5)
	if err := audit.LogUpdate(context.Background(), &userID, entity.AuditActionOrderStatusUpdate, "order", 12,
		map[string]interface{}{"status": "pending"}, map[string]interface{}{"status": "approved"}); err != nil {
		t.Fatalf("LogUpdate: %v", err)
	}

	logs, total, err := repo.FindAll(context.Background(), 10, 0)
	if err != nil || total != 1 {
		t.Fatalf("FindAll: total=%d err=%v", total, err)
	}
	got := logs[0]
	if got.Action != entity.AuditActionOrderStatusUpdate || got.UserID == nil || *got.UserID != 5 {
		t.Fatalf("unexpected log %+v", got)
	}
	if got.Metadata["entity"] != "order" || got.Metadata["entity_id"] != int64(12) {
		t.Fatalf("unexpected metadata %+v", got.Metadata)
	}
}

func TestAuditService_PropagatesStoreError(t *testing.T) {
	store := memory.NewStore()
	boom := errors.New("disk full")
	store.FailOn("audit_logs.create", boom)
	audit := NewAuditService(quietLogger(), memory.NewAuditLogRepository(store))

	if err := audit.LogDelete(context.Background(), nil, entity.AuditActionOrderDelete, "order", 1, nil); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
