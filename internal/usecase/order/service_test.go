package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domorder "github.com/trinibuild/storefront/internal/domain/order"
)

type mockOrderRepository struct {
	orders    map[string]*domorder.Order
	updated   map[string]domorder.Status
	listErr   error
	updateErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders:  make(map[string]*domorder.Order),
		updated: make(map[string]domorder.Status),
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	cloned := *o
	m.orders[cloned.ID] = &cloned
	return &cloned, nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	if o, ok := m.orders[id]; ok {
		cloned := *o
		return &cloned, nil
	}
	return nil, domorder.ErrOrderNotFound
}

func (m *mockOrderRepository) ListByStore(ctx context.Context, storeID string) ([]*domorder.Order, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]*domorder.Order, 0)
	for _, o := range m.orders {
		if o.StoreID == storeID {
			cloned := *o
			result = append(result, &cloned)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id string, status domorder.Status) (*domorder.Order, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	o.Status = status
	m.updated[id] = status
	cloned := *o
	return &cloned, nil
}

func seedOrder(repo *mockOrderRepository, id, storeID string, status domorder.Status) {
	repo.orders[id] = &domorder.Order{
		ID:          id,
		OrderNumber: "ORD-1042",
		StoreID:     storeID,
		Status:      status,
		Total:       7500,
		CreatedAt:   time.Now(),
	}
}

func TestGetByID_ScopedToStore(t *testing.T) {
	repo := newMockOrderRepository()
	seedOrder(repo, "o1", "store-1", domorder.StatusPending)
	svc := NewService(repo)

	o, err := svc.GetByID(context.Background(), "store-1", "o1")
	require.NoError(t, err)
	require.Equal(t, "o1", o.ID)

	// Another store's merchant sees not-found, not forbidden.
	o, err = svc.GetByID(context.Background(), "store-2", "o1")
	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
	require.Nil(t, o)
}

func TestListByStore_FiltersOtherStores(t *testing.T) {
	repo := newMockOrderRepository()
	seedOrder(repo, "o1", "store-1", domorder.StatusPending)
	seedOrder(repo, "o2", "store-1", domorder.StatusConfirmed)
	seedOrder(repo, "o3", "store-2", domorder.StatusPending)
	svc := NewService(repo)

	orders, err := svc.ListByStore(context.Background(), "store-1")

	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		require.Equal(t, "store-1", o.StoreID)
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	repo := newMockOrderRepository()
	seedOrder(repo, "o1", "store-1", domorder.StatusPending)
	svc := NewService(repo)

	o, err := svc.UpdateStatus(context.Background(), "store-1", "o1", domorder.Status("PROCESSING"))

	require.ErrorIs(t, err, domorder.ErrInvalidStatus)
	require.Nil(t, o)
	require.Empty(t, repo.updated)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	tests := []struct {
		name string
		from domorder.Status
		to   domorder.Status
	}{
		{"delivered is terminal", domorder.StatusDelivered, domorder.StatusPending},
		{"canceled is terminal", domorder.StatusCanceled, domorder.StatusConfirmed},
		{"no skipping to delivered", domorder.StatusPending, domorder.StatusDelivered},
		{"shipped cannot be canceled", domorder.StatusShipped, domorder.StatusCanceled},
		{"same status", domorder.StatusPending, domorder.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockOrderRepository()
			seedOrder(repo, "o1", "store-1", tt.from)
			svc := NewService(repo)

			o, err := svc.UpdateStatus(context.Background(), "store-1", "o1", tt.to)

			require.ErrorIs(t, err, domorder.ErrIllegalTransition)
			require.Nil(t, o)
			require.Equal(t, tt.from, repo.orders["o1"].Status)
		})
	}
}

func TestUpdateStatus_ValidTransitions(t *testing.T) {
	tests := []struct {
		from domorder.Status
		to   domorder.Status
	}{
		{domorder.StatusPending, domorder.StatusAwaitingConfirmation},
		{domorder.StatusAwaitingConfirmation, domorder.StatusConfirmed},
		{domorder.StatusConfirmed, domorder.StatusShipped},
		{domorder.StatusShipped, domorder.StatusDelivered},
		{domorder.StatusAwaitingConfirmation, domorder.StatusCanceled},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			repo := newMockOrderRepository()
			seedOrder(repo, "o1", "store-1", tt.from)
			svc := NewService(repo)

			o, err := svc.UpdateStatus(context.Background(), "store-1", "o1", tt.to)

			require.NoError(t, err)
			require.Equal(t, tt.to, o.Status)
			require.Equal(t, tt.to, repo.updated["o1"])
		})
	}
}

func TestUpdateStatus_ForeignStoreOrder(t *testing.T) {
	repo := newMockOrderRepository()
	seedOrder(repo, "o1", "store-1", domorder.StatusPending)
	svc := NewService(repo)

	o, err := svc.UpdateStatus(context.Background(), "store-2", "o1", domorder.StatusConfirmed)

	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
	require.Nil(t, o)
	require.Empty(t, repo.updated)
}

func TestUpdateStatus_RepositoryError(t *testing.T) {
	repo := newMockOrderRepository()
	seedOrder(repo, "o1", "store-1", domorder.StatusPending)
	repo.updateErr = domorder.ErrOrderNotFound
	svc := NewService(repo)

	o, err := svc.UpdateStatus(context.Background(), "store-1", "o1", domorder.StatusConfirmed)

	require.ErrorIs(t, err, domorder.ErrOrderNotFound)
	require.Nil(t, o)
}
