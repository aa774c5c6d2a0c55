package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/people-registry-api/internal/domain"
)

type mockSubscriptionStore struct{ mock.Mock }

func (m *mockSubscriptionStore) Put(ctx context.Context, s *domain.Subscription) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSubscriptionStore) Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if s, _ := args.Get(0).(*domain.Subscription); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubscriptionStore) ListByPerson(ctx context.Context, personID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, personID)
	return args.Get(0).([]domain.Subscription), args.Error(1)
}
func (m *mockSubscriptionStore) ListByProject(ctx context.Context, projectID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]domain.Subscription), args.Error(1)
}
func (m *mockSubscriptionStore) FindActive(ctx context.Context, personID, projectID string) (*domain.Subscription, error) {
	args := m.Called(ctx, personID, projectID)
	if s, _ := args.Get(0).(*domain.Subscription); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSubscriptionStore) CountActiveByProject(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}
func (m *mockSubscriptionStore) Update(ctx context.Context, subscriptionID string, updates map[string]any) error {
	return m.Called(ctx, subscriptionID, updates).Error(0)
}
func (m *mockSubscriptionStore) HardDelete(ctx context.Context, subscriptionID string) error {
	return m.Called(ctx, subscriptionID).Error(0)
}

type mockPersonStore struct{ mock.Mock }

func (m *mockPersonStore) Get(ctx context.Context, personID string) (*domain.Person, error) {
	args := m.Called(ctx, personID)
	if p, _ := args.Get(0).(*domain.Person); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProjectStore struct{ mock.Mock }

func (m *mockProjectStore) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if p, _ := args.Get(0).(*domain.Project); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func openProject() *domain.Project {
	return &domain.Project{
		ProjectID:       "pr1",
		MaxParticipants: 10,
		IsEnabled:       true,
		Status:          domain.ProjectActive,
		// registration stays open well past any test run
		RegistrationEndDate: time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02"),
	}
}

func subscribeReq() domain.CreateSubscriptionRequest {
	return domain.CreateSubscriptionRequest{PersonID: "p1", ProjectID: "pr1"}
}

func TestSubscribe_Success(t *testing.T) {
	subs := &mockSubscriptionStore{}
	people := &mockPersonStore{}
	projects := &mockProjectStore{}
	people.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)
	projects.On("Get", mock.Anything, "pr1").Return(openProject(), nil)
	subs.On("FindActive", mock.Anything, "p1", "pr1").Return(nil, domain.ErrNotFound)
	subs.On("CountActiveByProject", mock.Anything, "pr1").Return(3, nil)
	subs.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.Subscription) bool {
		return s.Status == domain.SubscriptionActive && s.IsActive && s.SubscriptionID != ""
	})).Return(nil)

	svc := NewService(subs, people, projects)
	sub, err := svc.Subscribe(context.Background(), subscribeReq())

	require.NoError(t, err)
	assert.Equal(t, "p1", sub.PersonID)
	subs.AssertExpectations(t)
}

func TestSubscribe_DuplicateActive(t *testing.T) {
	subs := &mockSubscriptionStore{}
	people := &mockPersonStore{}
	projects := &mockProjectStore{}
	people.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)
	projects.On("Get", mock.Anything, "pr1").Return(openProject(), nil)
	subs.On("FindActive", mock.Anything, "p1", "pr1").
		Return(&domain.Subscription{SubscriptionID: "s1"}, nil)

	svc := NewService(subs, people, projects)
	_, err := svc.Subscribe(context.Background(), subscribeReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	subs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSubscribe_ProjectFull(t *testing.T) {
	subs := &mockSubscriptionStore{}
	people := &mockPersonStore{}
	projects := &mockProjectStore{}
	people.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)
	projects.On("Get", mock.Anything, "pr1").Return(openProject(), nil)
	subs.On("FindActive", mock.Anything, "p1", "pr1").Return(nil, domain.ErrNotFound)
	subs.On("CountActiveByProject", mock.Anything, "pr1").Return(10, nil)

	svc := NewService(subs, people, projects)
	_, err := svc.Subscribe(context.Background(), subscribeReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	subs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSubscribe_DisabledProject(t *testing.T) {
	subs := &mockSubscriptionStore{}
	people := &mockPersonStore{}
	projects := &mockProjectStore{}
	proj := openProject()
	proj.IsEnabled = false
	people.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)
	projects.On("Get", mock.Anything, "pr1").Return(proj, nil)

	svc := NewService(subs, people, projects)
	_, err := svc.Subscribe(context.Background(), subscribeReq())

	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestSubscribe_RegistrationClosed(t *testing.T) {
	subs := &mockSubscriptionStore{}
	people := &mockPersonStore{}
	projects := &mockProjectStore{}
	proj := openProject()
	proj.RegistrationEndDate = "2020-01-01"
	people.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)
	projects.On("Get", mock.Anything, "pr1").Return(proj, nil)

	svc := NewService(subs, people, projects)
	_, err := svc.Subscribe(context.Background(), subscribeReq())

	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestSubscribe_UnknownPerson(t *testing.T) {
	subs := &mockSubscriptionStore{}
	people := &mockPersonStore{}
	people.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(subs, people, &mockProjectStore{})
	_, err := svc.Subscribe(context.Background(), domain.CreateSubscriptionRequest{PersonID: "ghost", ProjectID: "pr1"})

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCancel_SoftDeletes(t *testing.T) {
	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, "s1").Return(&domain.Subscription{SubscriptionID: "s1"}, nil)
	subs.On("Update", mock.Anything, "s1", map[string]any{
		"status":   domain.SubscriptionCancelled,
		"isActive": false,
	}).Return(nil)

	svc := NewService(subs, &mockPersonStore{}, &mockProjectStore{})
	_, err := svc.Cancel(context.Background(), "s1")

	require.NoError(t, err)
	subs.AssertExpectations(t)
	subs.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

func TestDelete_RemovesRow(t *testing.T) {
	subs := &mockSubscriptionStore{}
	subs.On("Get", mock.Anything, "s1").Return(&domain.Subscription{SubscriptionID: "s1"}, nil)
	subs.On("HardDelete", mock.Anything, "s1").Return(nil)

	svc := NewService(subs, &mockPersonStore{}, &mockProjectStore{})
	err := svc.Delete(context.Background(), "s1")

	require.NoError(t, err)
	subs.AssertExpectations(t)
}
