package project

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/people-registry-api/internal/domain"
)

type mockProjectStore struct{ mock.Mock }

func (m *mockProjectStore) Put(ctx context.Context, p *domain.Project) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProjectStore) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if p, _ := args.Get(0).(*domain.Project); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProjectStore) Scan(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *mockProjectStore) ScanEnabled(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *mockProjectStore) Update(ctx context.Context, projectID string, updates map[string]any) error {
	return m.Called(ctx, projectID, updates).Error(0)
}
func (m *mockProjectStore) HardDelete(ctx context.Context, projectID string) error {
	return m.Called(ctx, projectID).Error(0)
}

func createReq() domain.CreateProjectRequest {
	return domain.CreateProjectRequest{
		Name:            "Community Garden",
		Description:     "Weekend gardening project",
		StartDate:       "2026-09-01",
		EndDate:         "2026-12-01",
		MaxParticipants: 25,
	}
}

func TestCreate_DefaultsStatusAndEnabled(t *testing.T) {
	repo := &mockProjectStore{}
	repo.On("Put", mock.Anything, mock.MatchedBy(func(p *domain.Project) bool {
		return p.Status == domain.ProjectPending && p.IsEnabled && p.CreatedBy == "admin-1"
	})).Return(nil)

	svc := NewService(repo)
	p, err := svc.Create(context.Background(), createReq(), "admin-1")

	require.NoError(t, err)
	assert.NotEmpty(t, p.ProjectID)
	repo.AssertExpectations(t)
}

func TestCreate_RejectsUnknownStatus(t *testing.T) {
	repo := &mockProjectStore{}
	req := createReq()
	req.Status = domain.ProjectStatus("archived")

	svc := NewService(repo)
	_, err := svc.Create(context.Background(), req, "admin-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreate_RejectsEndBeforeStart(t *testing.T) {
	req := createReq()
	req.EndDate = "2026-08-01"

	svc := NewService(&mockProjectStore{})
	_, err := svc.Create(context.Background(), req, "admin-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_RejectsBadDateFormat(t *testing.T) {
	req := createReq()
	req.StartDate = "01-09-2026"

	svc := NewService(&mockProjectStore{})
	_, err := svc.Create(context.Background(), req, "admin-1")

	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_ValidatesMergedDates(t *testing.T) {
	repo := &mockProjectStore{}
	existing := &domain.Project{ProjectID: "pr1", StartDate: "2026-09-01", EndDate: "2026-12-01"}
	repo.On("Get", mock.Anything, "pr1").Return(existing, nil)

	// Moving only the end date before the stored start date must fail.
	end := "2026-08-15"
	svc := NewService(repo)
	_, err := svc.Update(context.Background(), "pr1", domain.UpdateProjectRequest{EndDate: &end})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_StatusEnumPassedAsValue(t *testing.T) {
	repo := &mockProjectStore{}
	existing := &domain.Project{ProjectID: "pr1", StartDate: "2026-09-01", EndDate: "2026-12-01"}
	st := domain.ProjectActive
	repo.On("Get", mock.Anything, "pr1").Return(existing, nil)
	repo.On("Update", mock.Anything, "pr1", map[string]any{"status": domain.ProjectActive}).Return(nil)

	svc := NewService(repo)
	_, err := svc.Update(context.Background(), "pr1", domain.UpdateProjectRequest{Status: &st})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockProjectStore{}
	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(repo)
	_, err := svc.Update(context.Background(), "missing", domain.UpdateProjectRequest{})

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListPublic_UsesEnabledScan(t *testing.T) {
	repo := &mockProjectStore{}
	repo.On("ScanEnabled", mock.Anything).Return([]domain.Project{{ProjectID: "pr1"}}, nil)

	svc := NewService(repo)
	out, err := svc.ListPublic(context.Background())

	require.NoError(t, err)
	assert.Len(t, out, 1)
	repo.AssertNotCalled(t, "Scan", mock.Anything)
}

func TestDelete_NotFoundSkipsHardDelete(t *testing.T) {
	repo := &mockProjectStore{}
	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(repo)
	err := svc.Delete(context.Background(), "missing")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	repo.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}
