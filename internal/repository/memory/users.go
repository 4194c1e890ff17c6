package memory

import (
	"context"
	"strings"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type UserRepository struct{ store *Store }

var _ domainRepo.UserRepository = (*UserRepository)(nil)

func NewUserRepository(store *Store) *UserRepository { return &UserRepository{store: store} }

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("users.create"); err != nil {
		return err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return uniqueViolation("users_email_key")
		}
	}
	user.ID = s.nextID("users")
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	user.CreatedAt = s.now()
	stored := *user
	stored.Location = nil
	s.users[user.ID] = stored
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	for _, u := range sortedValues(s.users) {
		if u.Email == email {
			u.Location = s.userLocation(u.ID)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	u.Location = s.userLocation(id)
	return &u, nil
}

// userLocation expects the caller to hold the lock
func (s *Store) userLocation(userID int64) *entity.Location {
	for _, l := range sortedValues(s.locations) {
		if l.UserID != nil && *l.UserID == userID {
			return &l
		}
	}
	return nil
}

// pharmacyLocation expects the caller to hold the lock
func (s *Store) pharmacyLocation(pharmacyID int64) *entity.Location {
	for _, l := range sortedValues(s.locations) {
		if l.PharmacyID != nil && *l.PharmacyID == pharmacyID {
			return &l
		}
	}
	return nil
}
