package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/infrastructure/cache"
	"github.com/vetclinic/backend/internal/infrastructure/event"
	"github.com/vetclinic/backend/internal/infrastructure/persistence"
	"github.com/vetclinic/backend/tests/testutil"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, entry *audit.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.Entry), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, q audit.Query) ([]audit.Entry, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]audit.Entry), args.Get(1).(int64), args.Error(2)
}

func TestService_RecordSwallowsFailures(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	svc := NewService(repo, zap.NewNop())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), audit.NewEntry(audit.ActionCreate, "Invoices", audit.StatusSuccess))
		svc.Record(context.Background(), nil)
	})
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_ListClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, DefaultListLimit},
		{"within range", 120, 120},
		{"capped", 10000, MaxListLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			repo.On("List", mock.Anything, mock.MatchedBy(func(q audit.Query) bool { return q.Limit == tt.want })).
				Return([]audit.Entry{}, int64(0), nil)

			_, _, err := NewService(repo, zap.NewNop()).List(context.Background(), ListQuery{Limit: tt.limit})

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListQueryBounds(t *testing.T) {
	actor := uuid.New()
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	q := ListQuery{ActorID: actor.String(), Module: "Expenses", To: &day, Offset: -3}.toQuery()

	require.NotNil(t, q.ActorID)
	assert.Equal(t, actor, *q.ActorID)
	assert.Equal(t, "Expenses", q.Module)
	assert.Equal(t, time.Date(2025, 4, 1, 23, 59, 59, 999999999, time.UTC), *q.To)
	assert.Zero(t, q.Offset)
}

func TestRecordChangedHandler_WritesEachEventOnce(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := NewService(persistence.NewGormAuditRepository(db), zap.NewNop())
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(event.NewIdempotentHandler(NewRecordChangedHandler(svc), store, zap.NewNop()))
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	ctx := context.Background()
	recordID, actor := uuid.New(), uuid.New()
	changed := audit.NewRecordChanged(audit.ActionCreate, "Expenses", recordID, "EXP-2025-0001", actor).
		WithChanges(map[string]interface{}{"amount": "150"})

	require.NoError(t, bus.Publish(ctx, changed))
	require.NoError(t, bus.Publish(ctx, changed))

	entries, total, err := svc.ForRecord(ctx, recordID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "EXP-2025-0001", entries[0].RecordName)
	assert.Equal(t, "SUCCESS", entries[0].Status)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, actor, *entries[0].ActorID)
	assert.JSONEq(t, `{"amount":"150"}`, string(entries[0].Changes))

	got, err := svc.Get(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, changed.EventID(), got.ID)
}

func TestRecordChangedHandler_RejectsOtherEvents(t *testing.T) {
	h := NewRecordChangedHandler(NewService(new(mockRepository), zap.NewNop()))
	err := h.Handle(context.Background(), testutil.NewTestEvent(audit.EventTypeRecordChanged, uuid.New()))
	assert.Error(t, err)
}
