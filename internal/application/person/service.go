package person

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/people-registry-api/internal/domain"
	"github.com/people-registry-api/internal/pkg/id"
)

// Public API field names used as keys in partial update maps. The storage
// layer maps these to the snake_case attribute names.
const (
	fieldFirstName             = "firstName"
	fieldLastName              = "lastName"
	fieldEmail                 = "email"
	fieldPhone                 = "phone"
	fieldDateOfBirth           = "dateOfBirth"
	fieldAddress               = "address"
	fieldIsAdmin               = "isAdmin"
	fieldIsActive              = "isActive"
	fieldRequirePasswordChange = "requirePasswordChange"
)

type Service interface {
	Create(ctx context.Context, req domain.CreatePersonRequest) (*domain.Person, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Person, string, error)
	Get(ctx context.Context, personID string) (*domain.Person, error)
	Update(ctx context.Context, personID string, req domain.UpdatePersonRequest) (*domain.Person, error)
	Delete(ctx context.Context, personID, deletedBy string) error
	Count(ctx context.Context) (int, error)
}

type personStore interface {
	Put(ctx context.Context, p *domain.Person) error
	Get(ctx context.Context, personID string) (*domain.Person, error)
	GetByEmail(ctx context.Context, email string) (*domain.Person, error)
	Update(ctx context.Context, personID string, updates map[string]any) error
	HardDelete(ctx context.Context, personID string) error
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Person, string, error)
	Count(ctx context.Context) (int, error)
}

type subscriptionStore interface {
	DeleteByPerson(ctx context.Context, personID string) error
}

type auditStore interface {
	Append(ctx context.Context, e *domain.AuditEvent) error
}

type service struct {
	repo      personStore
	subRepo   subscriptionStore
	auditRepo auditStore
}

func NewService(repo personStore, subRepo subscriptionStore, auditRepo auditStore) Service {
	return &service{repo: repo, subRepo: subRepo, auditRepo: auditRepo}
}

func (s *service) Create(ctx context.Context, req domain.CreatePersonRequest) (*domain.Person, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	if _, err := time.Parse("2006-01-02", req.DateOfBirth); err != nil {
		return nil, fmt.Errorf("dateOfBirth must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Person{
		PersonID:     id.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Address:      req.Address,
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, limit int, cursor string) ([]domain.Person, string, error) {
	if limit < 1 {
		limit = 50
	}
	return s.repo.ScanPage(ctx, int32(limit), cursor)
}

func (s *service) Get(ctx context.Context, personID string) (*domain.Person, error) {
	return s.repo.Get(ctx, personID)
}

func (s *service) Update(ctx context.Context, personID string, req domain.UpdatePersonRequest) (*domain.Person, error) {
	updates := map[string]any{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.Email != nil {
		if _, err := s.repo.GetByEmail(ctx, *req.Email); err == nil {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		updates[fieldEmail] = *req.Email
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.DateOfBirth != nil {
		if _, err := time.Parse("2006-01-02", *req.DateOfBirth); err != nil {
			return nil, fmt.Errorf("dateOfBirth must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
		}
		updates[fieldDateOfBirth] = *req.DateOfBirth
	}
	if req.Address != nil {
		updates[fieldAddress] = req.Address
	}
	if req.IsAdmin != nil {
		updates[fieldIsAdmin] = *req.IsAdmin
	}
	if req.IsActive != nil {
		updates[fieldIsActive] = *req.IsActive
	}
	if req.RequirePasswordChange != nil {
		updates[fieldRequirePasswordChange] = *req.RequirePasswordChange
	}
	// An all-unset request is still a valid update: only the timestamp moves.
	if err := s.repo.Update(ctx, personID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, personID)
}

// Delete removes a person and cascades to their subscriptions, so no
// orphaned subscription rows keep counting against project capacity.
func (s *service) Delete(ctx context.Context, personID, deletedBy string) error {
	if _, err := s.repo.Get(ctx, personID); err != nil {
		return err
	}
	if err := s.subRepo.DeleteByPerson(ctx, personID); err != nil {
		return fmt.Errorf("cascade subscriptions: %w", err)
	}
	if err := s.repo.HardDelete(ctx, personID); err != nil {
		return err
	}
	s.audit(ctx, personID, deletedBy)
	return nil
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *service) audit(ctx context.Context, personID, deletedBy string) {
	_ = s.auditRepo.Append(ctx, &domain.AuditEvent{
		EventID:   id.New(),
		PersonID:  personID,
		Action:    domain.AuditPersonDeleted,
		Detail:    "deleted by " + deletedBy,
		CreatedAt: time.Now().UTC(),
	})
}
