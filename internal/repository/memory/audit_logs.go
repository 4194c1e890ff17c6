package memory

import (
	"context"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type AuditLogRepository struct{ store *Store }

var _ domainRepo.AuditLogRepository = (*AuditLogRepository)(nil)

func NewAuditLogRepository(store *Store) *AuditLogRepository {
	return &AuditLogRepository{store: store}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("audit_logs.create"); err != nil {
		return err
	}
	log.ID = s.nextID("audit_logs")
	log.CreatedAt = s.now()
	s.auditLogs[log.ID] = *log
	return nil
}

// FindAll returns newest entries first
func (r *AuditLogRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.AuditLog, int64, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	all := sortedValues(s.auditLogs)
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *AuditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	l, ok := s.auditLogs[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}
