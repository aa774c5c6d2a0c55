package project

import (
	"context"
	"fmt"
	"time"

	"github.com/people-registry-api/internal/domain"
	"github.com/people-registry-api/internal/pkg/id"
)

// Public API field names used as keys in partial update maps.
const (
	fieldName                = "name"
	fieldDescription         = "description"
	fieldStartDate           = "startDate"
	fieldEndDate             = "endDate"
	fieldRegistrationEndDate = "registrationEndDate"
	fieldMaxParticipants     = "maxParticipants"
	fieldStatus              = "status"
	fieldCategory            = "category"
	fieldLocation            = "location"
	fieldRequirements        = "requirements"
	fieldIsEnabled           = "isEnabled"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateProjectRequest, createdBy string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListPublic(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	Update(ctx context.Context, projectID string, req domain.UpdateProjectRequest) (*domain.Project, error)
	Delete(ctx context.Context, projectID string) error
}

type projectStore interface {
	Put(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	Scan(ctx context.Context) ([]domain.Project, error)
	ScanEnabled(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, updates map[string]any) error
	HardDelete(ctx context.Context, projectID string) error
}

type service struct {
	repo projectStore
}

func NewService(repo projectStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateProjectRequest, createdBy string) (*domain.Project, error) {
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.ProjectPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown project status %q: %w", status, domain.ErrBadRequest)
	}
	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	now := time.Now().UTC()
	p := &domain.Project{
		ProjectID:           id.New(),
		Name:                req.Name,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		RegistrationEndDate: req.RegistrationEndDate,
		MaxParticipants:     req.MaxParticipants,
		Status:              status,
		Category:            req.Category,
		Location:            req.Location,
		Requirements:        req.Requirements,
		IsEnabled:           enabled,
		CreatedBy:           createdBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.Scan(ctx)
}

func (s *service) ListPublic(ctx context.Context) ([]domain.Project, error) {
	return s.repo.ScanEnabled(ctx)
}

func (s *service) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.repo.Get(ctx, projectID)
}

func (s *service) Update(ctx context.Context, projectID string, req domain.UpdateProjectRequest) (*domain.Project, error) {
	existing, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// Date validation considers the dates the record will have after the
	// update, not just the ones in the request.
	start, end := existing.StartDate, existing.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if err := validateDates(start, end); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.StartDate != nil {
		updates[fieldStartDate] = *req.StartDate
	}
	if req.EndDate != nil {
		updates[fieldEndDate] = *req.EndDate
	}
	if req.RegistrationEndDate != nil {
		updates[fieldRegistrationEndDate] = *req.RegistrationEndDate
	}
	if req.MaxParticipants != nil {
		updates[fieldMaxParticipants] = *req.MaxParticipants
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("unknown project status %q: %w", *req.Status, domain.ErrBadRequest)
		}
		updates[fieldStatus] = *req.Status
	}
	if req.Category != nil {
		updates[fieldCategory] = *req.Category
	}
	if req.Location != nil {
		updates[fieldLocation] = *req.Location
	}
	if req.Requirements != nil {
		updates[fieldRequirements] = *req.Requirements
	}
	if req.IsEnabled != nil {
		updates[fieldIsEnabled] = *req.IsEnabled
	}
	if err := s.repo.Update(ctx, projectID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, projectID)
}

func (s *service) Delete(ctx context.Context, projectID string) error {
	if _, err := s.repo.Get(ctx, projectID); err != nil {
		return err
	}
	return s.repo.HardDelete(ctx, projectID)
}

func validateDates(start, end string) error {
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return fmt.Errorf("startDate must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return fmt.Errorf("endDate must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	if end <= start {
		return fmt.Errorf("endDate must be after startDate: %w", domain.ErrBadRequest)
	}
	return nil
}
