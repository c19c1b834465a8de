package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/eventbus"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type fakeOrderRepo struct {
	orders            map[int64]*domain.Order
	nextID            int64
	statusWrites      int
	deletes           int
	casResult         bool
	casResultExplicit bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, storeID, id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.StoreID != storeID {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) List(ctx context.Context, storeID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range f.orders {
		if order.StoreID == storeID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, storeID, id int64, from, to domain.OrderStatus) (bool, error) {
	f.statusWrites++
	if f.casResultExplicit {
		return f.casResult, nil
	}
	order, ok := f.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, storeID, id int64) error {
	f.deletes++
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) NextOrderNumber(ctx context.Context, storeID int64) (string, error) {
	return fmt.Sprintf("ORD_TEST_%03d", f.nextID), nil
}

func newTestService(repo interfaces.OrderRepository) (*Service, *eventbus.Bus) {
	bus := eventbus.New(zap.NewNop())
	return NewService(repo, bus, zap.NewNop()), bus
}

func seedOrder(repo *fakeOrderRepo, status domain.OrderStatus) *domain.Order {
	order, _ := domain.NewOrder(1, nil, []domain.OrderItem{{RecipeID: 5, Quantity: 1, UnitPrice: 10}}, nil, nil)
	order.Status = status
	_ = repo.Create(context.Background(), order)
	return order
}

func TestCreatePublishesEvent(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, bus := newTestService(repo)

	var events []domain.Event
	bus.Subscribe(domain.EventOrderCreated, func(ctx context.Context, evt domain.Event) error {
		events = append(events, evt)
		return nil
	})

	order, err := svc.Create(context.Background(), 1, interfaces.CreateOrderCommand{
		Items: []interfaces.CreateOrderItemCommand{{RecipeID: 5, Quantity: 2, UnitPrice: 4.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, 9.0, order.TotalAmount)
	assert.Equal(t, domain.StatusReceived, order.Status)

	bus.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].Payload["orderId"])
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), 1, interfaces.CreateOrderCommand{})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Empty(t, repo.orders)
}

func TestUpdateStatusLegalTransition(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, bus := newTestService(repo)
	order := seedOrder(repo, domain.StatusReceived)

	change, err := svc.UpdateStatus(context.Background(), 1, order.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, change.From)
	assert.Equal(t, domain.StatusInProgress, change.To)
	assert.Equal(t, domain.StatusInProgress, repo.orders[order.ID].Status)
	bus.Drain()
}

// Every (current, requested) pair outside the table must fail Validation
// without touching the store.
func TestUpdateStatusIllegalTransitionsPerformNoWrite(t *testing.T) {
	all := []domain.OrderStatus{domain.StatusReceived, domain.StatusInProgress, domain.StatusReady, domain.StatusDelivered}

	for _, from := range all {
		for _, to := range all {
			if domain.CanTransition(from, to) {
				continue
			}
			repo := newFakeOrderRepo()
			svc, _ := newTestService(repo)
			order := seedOrder(repo, from)

			_, err := svc.UpdateStatus(context.Background(), 1, order.ID, to)
			require.Error(t, err, "%s -> %s", from, to)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Zero(t, repo.statusWrites, "no write for %s -> %s", from, to)
		}
	}
}

func TestUpdateStatusValidationNamesAllowedSet(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, _ := newTestService(repo)
	order := seedOrder(repo, domain.StatusReceived)

	_, err := svc.UpdateStatus(context.Background(), 1, order.ID, domain.StatusDelivered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "received")
	assert.Contains(t, err.Error(), "delivered")
	assert.Contains(t, err.Error(), "in_progress")
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, _ := newTestService(repo)

	_, err := svc.UpdateStatus(context.Background(), 1, 999, domain.StatusInProgress)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestUpdateStatusOutOfStoreScope(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, _ := newTestService(repo)
	order := seedOrder(repo, domain.StatusReceived)

	_, err := svc.UpdateStatus(context.Background(), 2, order.ID, domain.StatusInProgress)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestUpdateStatusLostRaceIsConflict(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.casResultExplicit = true
	repo.casResult = false
	svc, _ := newTestService(repo)
	order := seedOrder(repo, domain.StatusReceived)

	_, err := svc.UpdateStatus(context.Background(), 1, order.ID, domain.StatusInProgress)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestUpdateStatusDeliveredPublishesBothEvents(t *testing.T) {
	repo := newFakeOrderRepo()
	svc, bus := newTestService(repo)
	order := seedOrder(repo, domain.StatusReady)

	var names []string
	handler := func(ctx context.Context, evt domain.Event) error {
		names = append(names, evt.Name)
		return nil
	}
	bus.Subscribe(domain.EventOrderStatusChanged, handler)
	bus.Subscribe(domain.EventOrderDelivered, handler)

	_, err := svc.UpdateStatus(context.Background(), 1, order.ID, domain.StatusDelivered)
	require.NoError(t, err)

	bus.Drain()
	assert.ElementsMatch(t, []string{domain.EventOrderStatusChanged, domain.EventOrderDelivered}, names)
}

func TestDeleteOnlyWhileReceived(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.StatusInProgress, domain.StatusReady, domain.StatusDelivered} {
		repo := newFakeOrderRepo()
		svc, _ := newTestService(repo)
		order := seedOrder(repo, status)

		err := svc.Delete(context.Background(), 1, order.ID)
		require.Error(t, err, "status %s", status)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		assert.Zero(t, repo.deletes)
	}

	repo := newFakeOrderRepo()
	svc, _ := newTestService(repo)
	order := seedOrder(repo, domain.StatusReceived)

	require.NoError(t, svc.Delete(context.Background(), 1, order.ID))
	assert.Equal(t, 1, repo.deletes)
}
