package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/people-registry-api/internal/domain"
	"github.com/people-registry-api/internal/pkg/id"
)

// Public API field names used as keys in partial update maps.
const (
	fieldStatus   = "status"
	fieldIsActive = "isActive"
)

type Service interface {
	Subscribe(ctx context.Context, req domain.CreateSubscriptionRequest) (*domain.Subscription, error)
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	ListByPerson(ctx context.Context, personID string) ([]domain.Subscription, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Subscription, error)
	Update(ctx context.Context, subscriptionID string, req domain.UpdateSubscriptionRequest) (*domain.Subscription, error)
	Cancel(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	Delete(ctx context.Context, subscriptionID string) error
}

type subscriptionStore interface {
	Put(ctx context.Context, s *domain.Subscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	ListByPerson(ctx context.Context, personID string) ([]domain.Subscription, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Subscription, error)
	FindActive(ctx context.Context, personID, projectID string) (*domain.Subscription, error)
	CountActiveByProject(ctx context.Context, projectID string) (int, error)
	Update(ctx context.Context, subscriptionID string, updates map[string]any) error
	HardDelete(ctx context.Context, subscriptionID string) error
}

type personStore interface {
	Get(ctx context.Context, personID string) (*domain.Person, error)
}

type projectStore interface {
	Get(ctx context.Context, projectID string) (*domain.Project, error)
}

type service struct {
	repo        subscriptionStore
	personRepo  personStore
	projectRepo projectStore
}

func NewService(repo subscriptionStore, personRepo personStore, projectRepo projectStore) Service {
	return &service{repo: repo, personRepo: personRepo, projectRepo: projectRepo}
}

// Subscribe enrols a person in a project. Duplicate active subscriptions for
// the same person+project pair are rejected, and full projects refuse new
// enrolments.
func (s *service) Subscribe(ctx context.Context, req domain.CreateSubscriptionRequest) (*domain.Subscription, error) {
	if _, err := s.personRepo.Get(ctx, req.PersonID); err != nil {
		return nil, err
	}
	proj, err := s.projectRepo.Get(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !proj.IsEnabled {
		return nil, fmt.Errorf("project is not open for subscriptions: %w", domain.ErrForbidden)
	}
	if proj.RegistrationEndDate != "" && time.Now().UTC().Format("2006-01-02") > proj.RegistrationEndDate {
		return nil, fmt.Errorf("registration period has ended: %w", domain.ErrForbidden)
	}

	if _, err := s.repo.FindActive(ctx, req.PersonID, req.ProjectID); err == nil {
		return nil, fmt.Errorf("person is already subscribed to this project: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	active, err := s.repo.CountActiveByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if active >= proj.MaxParticipants {
		return nil, fmt.Errorf("project is full: %w", domain.ErrConflict)
	}

	status := req.Status
	if status == "" {
		status = domain.SubscriptionActive
	}
	now := time.Now().UTC()
	sub := &domain.Subscription{
		SubscriptionID:   id.New(),
		PersonID:         req.PersonID,
		ProjectID:        req.ProjectID,
		Status:           status,
		SubscriptionDate: now.Format("2006-01-02"),
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Put(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	return s.repo.Get(ctx, subscriptionID)
}

func (s *service) ListByPerson(ctx context.Context, personID string) ([]domain.Subscription, error) {
	return s.repo.ListByPerson(ctx, personID)
}

func (s *service) ListByProject(ctx context.Context, projectID string) ([]domain.Subscription, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *service) Update(ctx context.Context, subscriptionID string, req domain.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	if _, err := s.repo.Get(ctx, subscriptionID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if req.IsActive != nil {
		updates[fieldIsActive] = *req.IsActive
	}
	if err := s.repo.Update(ctx, subscriptionID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, subscriptionID)
}

// Cancel is a soft delete: the row stays for history but stops counting
// against project capacity.
func (s *service) Cancel(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	if _, err := s.repo.Get(ctx, subscriptionID); err != nil {
		return nil, err
	}
	updates := map[string]any{
		fieldStatus:   domain.SubscriptionCancelled,
		fieldIsActive: false,
	}
	if err := s.repo.Update(ctx, subscriptionID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, subscriptionID)
}

func (s *service) Delete(ctx context.Context, subscriptionID string) error {
	if _, err := s.repo.Get(ctx, subscriptionID); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, subscriptionID)
}
