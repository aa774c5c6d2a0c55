package person

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/people-registry-api/internal/domain"
)

// --- mocks ---

type mockPersonStore struct{ mock.Mock }

func (m *mockPersonStore) Put(ctx context.Context, p *domain.Person) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPersonStore) Get(ctx context.Context, personID string) (*domain.Person, error) {
	args := m.Called(ctx, personID)
	if p, _ := args.Get(0).(*domain.Person); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPersonStore) GetByEmail(ctx context.Context, email string) (*domain.Person, error) {
	args := m.Called(ctx, email)
	if p, _ := args.Get(0).(*domain.Person); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPersonStore) Update(ctx context.Context, personID string, updates map[string]any) error {
	return m.Called(ctx, personID, updates).Error(0)
}
func (m *mockPersonStore) HardDelete(ctx context.Context, personID string) error {
	return m.Called(ctx, personID).Error(0)
}
func (m *mockPersonStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Person, string, error) {
	args := m.Called(ctx, limit, cursor)
	return args.Get(0).([]domain.Person), args.String(1), args.Error(2)
}
func (m *mockPersonStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockSubscriptionStore struct{ mock.Mock }

func (m *mockSubscriptionStore) DeleteByPerson(ctx context.Context, personID string) error {
	return m.Called(ctx, personID).Error(0)
}

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) Append(ctx context.Context, e *domain.AuditEvent) error {
	return m.Called(ctx, e).Error(0)
}

// --- helpers ---

func baseReq() domain.CreatePersonRequest {
	return domain.CreatePersonRequest{
		FirstName:   "Alice",
		LastName:    "Smith",
		Email:       "alice@example.com",
		Password:    "password123",
		DateOfBirth: "1990-04-01",
		Address:     domain.Address{City: "Springfield", PostalCode: "12345"},
	}
}

// --- Create tests ---

func TestCreate_EmailConflict(t *testing.T) {
	ps := &mockPersonStore{}
	ps.On("GetByEmail", mock.Anything, "alice@example.com").Return(&domain.Person{}, nil)

	svc := NewService(ps, nil, nil)
	_, err := svc.Create(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	ps.AssertExpectations(t)
}

func TestCreate_BadDateOfBirth(t *testing.T) {
	ps := &mockPersonStore{}
	ps.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	req := baseReq()
	req.DateOfBirth = "01/04/1990"
	svc := NewService(ps, nil, nil)
	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_Success(t *testing.T) {
	ps := &mockPersonStore{}
	ps.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domain.ErrNotFound)
	ps.On("Put", mock.Anything, mock.MatchedBy(func(p *domain.Person) bool {
		return p.Email == "alice@example.com" && p.IsActive && p.PersonID != "" &&
			p.PasswordHash != "" && p.PasswordHash != "password123"
	})).Return(nil)

	svc := NewService(ps, nil, nil)
	p, err := svc.Create(context.Background(), baseReq())

	require.NoError(t, err)
	assert.Equal(t, "Alice", p.FirstName)
	assert.Equal(t, "12345", p.Address.PostalCode)
	ps.AssertExpectations(t)
}

// --- Update tests ---

func TestUpdate_BuildsSparseUpdateMap(t *testing.T) {
	ps := &mockPersonStore{}
	first := "Alicia"
	ps.On("Update", mock.Anything, "p1", map[string]any{"firstName": "Alicia"}).Return(nil)
	ps.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1", FirstName: "Alicia"}, nil)

	svc := NewService(ps, nil, nil)
	p, err := svc.Update(context.Background(), "p1", domain.UpdatePersonRequest{FirstName: &first})

	require.NoError(t, err)
	assert.Equal(t, "Alicia", p.FirstName)
	ps.AssertExpectations(t)
}

func TestUpdate_EmptyRequestStillTouchesTimestamp(t *testing.T) {
	ps := &mockPersonStore{}
	ps.On("Update", mock.Anything, "p1", map[string]any{}).Return(nil)
	ps.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)

	svc := NewService(ps, nil, nil)
	_, err := svc.Update(context.Background(), "p1", domain.UpdatePersonRequest{})

	require.NoError(t, err)
	ps.AssertExpectations(t)
}

func TestUpdate_AddressPassedThroughRaw(t *testing.T) {
	ps := &mockPersonStore{}
	addr := map[string]any{"city": "Shelbyville", "zipCode": "99999"}
	ps.On("Update", mock.Anything, "p1", map[string]any{"address": addr}).Return(nil)
	ps.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)

	svc := NewService(ps, nil, nil)
	_, err := svc.Update(context.Background(), "p1", domain.UpdatePersonRequest{Address: addr})

	require.NoError(t, err)
	ps.AssertExpectations(t)
}

func TestUpdate_EmailConflict(t *testing.T) {
	ps := &mockPersonStore{}
	email := "taken@example.com"
	ps.On("GetByEmail", mock.Anything, email).Return(&domain.Person{PersonID: "other"}, nil)

	svc := NewService(ps, nil, nil)
	_, err := svc.Update(context.Background(), "p1", domain.UpdatePersonRequest{Email: &email})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// --- Delete tests ---

func TestDelete_CascadesSubscriptions(t *testing.T) {
	ps := &mockPersonStore{}
	ss := &mockSubscriptionStore{}
	as := &mockAuditStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)
	ss.On("DeleteByPerson", mock.Anything, "p1").Return(nil)
	ps.On("HardDelete", mock.Anything, "p1").Return(nil)
	as.On("Append", mock.Anything, mock.MatchedBy(func(e *domain.AuditEvent) bool {
		return e.Action == domain.AuditPersonDeleted && e.PersonID == "p1"
	})).Return(nil)

	svc := NewService(ps, ss, as)
	err := svc.Delete(context.Background(), "p1", "admin-1")

	require.NoError(t, err)
	ps.AssertExpectations(t)
	ss.AssertExpectations(t)
	as.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	ps := &mockPersonStore{}
	ps.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(ps, &mockSubscriptionStore{}, &mockAuditStore{})
	err := svc.Delete(context.Background(), "missing", "admin-1")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_CascadeFailureStopsDeletion(t *testing.T) {
	ps := &mockPersonStore{}
	ss := &mockSubscriptionStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Person{PersonID: "p1"}, nil)
	ss.On("DeleteByPerson", mock.Anything, "p1").Return(errors.New("dynamo down"))

	svc := NewService(ps, ss, &mockAuditStore{})
	err := svc.Delete(context.Background(), "p1", "admin-1")

	require.Error(t, err)
	ps.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything)
}

// --- List tests ---

func TestList_DefaultsLimit(t *testing.T) {
	ps := &mockPersonStore{}
	ps.On("ScanPage", mock.Anything, int32(50), "").Return([]domain.Person{}, "", nil)

	svc := NewService(ps, nil, nil)
	_, _, err := svc.List(context.Background(), 0, "")

	require.NoError(t, err)
	ps.AssertExpectations(t)
}
