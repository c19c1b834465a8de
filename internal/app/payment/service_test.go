package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/eventbus"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type fakePaymentRepo struct {
	payments map[int64]*domain.Payment
	nextID   int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int64]*domain.Payment)}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	f.nextID++
	payment.ID = f.nextID
	copied := *payment
	f.payments[payment.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, storeID, id int64) (*domain.Payment, error) {
	payment, ok := f.payments[id]
	if !ok || payment.StoreID != storeID {
		return nil, nil
	}
	copied := *payment
	return &copied, nil
}

func (f *fakePaymentRepo) ListByOrder(ctx context.Context, storeID, orderID int64) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, payment := range f.payments {
		if payment.StoreID == storeID && payment.OrderID == orderID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) UpdateStatus(ctx context.Context, storeID, id int64, from, to domain.PaymentStatus) (bool, error) {
	payment, ok := f.payments[id]
	if !ok || payment.StoreID != storeID || payment.Status != from {
		return false, nil
	}
	payment.Status = to
	return true, nil
}

type fakeOrderRepo struct {
	order *domain.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error { return nil }

func (f *fakeOrderRepo) FindByID(ctx context.Context, storeID, id int64) (*domain.Order, error) {
	if f.order == nil || f.order.ID != id || f.order.StoreID != storeID {
		return nil, nil
	}
	copied := *f.order
	return &copied, nil
}

func (f *fakeOrderRepo) List(ctx context.Context, storeID int64) ([]*domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, storeID, id int64, from, to domain.OrderStatus) (bool, error) {
	return false, nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, storeID, id int64) error { return nil }

func (f *fakeOrderRepo) NextOrderNumber(ctx context.Context, storeID int64) (string, error) {
	return "", nil
}

// fakeLoyalty records accruals and reversals and serves the idempotent
// payment lookup.
type fakeLoyalty struct {
	commands []interfaces.LoyaltyCommand
	existing map[domain.LoyaltyTxType]*domain.LoyaltyTransaction
}

func newFakeLoyalty() *fakeLoyalty {
	return &fakeLoyalty{existing: make(map[domain.LoyaltyTxType]*domain.LoyaltyTransaction)}
}

func (f *fakeLoyalty) CreateTransaction(ctx context.Context, storeID int64, cmd interfaces.LoyaltyCommand) (*domain.LoyaltyTransaction, error) {
	f.commands = append(f.commands, cmd)
	return &domain.LoyaltyTransaction{
		CustomerID: cmd.CustomerID,
		PaymentID:  cmd.PaymentID,
		Type:       cmd.Type,
		Points:     cmd.Type.SignedPoints(cmd.Points),
	}, nil
}

func (f *fakeLoyalty) Balance(ctx context.Context, storeID, customerID int64) (int, error) {
	return 0, nil
}

func (f *fakeLoyalty) History(ctx context.Context, storeID, customerID int64) ([]domain.LoyaltyTransaction, error) {
	return nil, nil
}

func (f *fakeLoyalty) FindByPayment(ctx context.Context, storeID, paymentID int64, txType domain.LoyaltyTxType) (*domain.LoyaltyTransaction, error) {
	return f.existing[txType], nil
}

func testOrder(customerID *int64) *domain.Order {
	return &domain.Order{
		ID:          5,
		StoreID:     1,
		Number:      "ORD_TEST_001",
		CustomerID:  customerID,
		Status:      domain.StatusReady,
		TotalAmount: 100,
	}
}

func newTestService(order *domain.Order) (*Service, *fakePaymentRepo, *fakeLoyalty, *eventbus.Bus) {
	payments := newFakePaymentRepo()
	loyalty := newFakeLoyalty()
	bus := eventbus.New(zap.NewNop())
	svc := NewService(payments, &fakeOrderRepo{order: order}, loyalty, bus, zap.NewNop())
	return svc, payments, loyalty, bus
}

func TestRecordPayment(t *testing.T) {
	customerID := int64(10)
	svc, _, loyalty, bus := newTestService(testOrder(&customerID))

	var events []domain.Event
	bus.Subscribe(domain.EventPaymentReceived, func(ctx context.Context, evt domain.Event) error {
		events = append(events, evt)
		return nil
	})

	payment, err := svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 5,
		Amount:  40,
		Method:  domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, payment.Status)

	// Accrual: 1 point per whole unit.
	require.Len(t, loyalty.commands, 1)
	assert.Equal(t, domain.LoyaltyEarned, loyalty.commands[0].Type)
	assert.Equal(t, 40, loyalty.commands[0].Points)
	assert.Equal(t, customerID, loyalty.commands[0].CustomerID)

	bus.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, 40.0, events[0].Payload["amount"])
}

func TestRecordPaymentWalkInSkipsAccrual(t *testing.T) {
	svc, _, loyalty, bus := newTestService(testOrder(nil))

	_, err := svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 5,
		Amount:  40,
		Method:  domain.PaymentMethodCash,
	})
	require.NoError(t, err)
	bus.Drain()
	assert.Empty(t, loyalty.commands)
}

func TestRecordPaymentValidation(t *testing.T) {
	svc, payments, _, _ := newTestService(testOrder(nil))

	_, err := svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 5, Amount: 0, Method: domain.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 5, Amount: 10, Method: "card",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	assert.Empty(t, payments.payments)
}

func TestRecordPaymentUnknownOrder(t *testing.T) {
	svc, _, _, _ := newTestService(testOrder(nil))

	_, err := svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 999, Amount: 10, Method: domain.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestRefundFlipsStatusAndReversesPoints(t *testing.T) {
	customerID := int64(10)
	svc, payments, loyalty, bus := newTestService(testOrder(&customerID))

	payment, err := svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 5, Amount: 40, Method: domain.PaymentMethodCash,
	})
	require.NoError(t, err)

	loyalty.existing[domain.LoyaltyEarned] = &domain.LoyaltyTransaction{
		CustomerID: customerID,
		PaymentID:  &payment.ID,
		Type:       domain.LoyaltyEarned,
		Points:     40,
	}

	refunded, err := svc.Refund(context.Background(), 1, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, refunded.Status)
	assert.Equal(t, domain.PaymentRefunded, payments.payments[payment.ID].Status)

	// One accrual from Record, one compensating entry from Refund.
	require.Len(t, loyalty.commands, 2)
	reversal := loyalty.commands[1]
	assert.Equal(t, domain.LoyaltyAdjusted, reversal.Type)
	assert.Equal(t, -40, reversal.Points)
	bus.Drain()
}

func TestRefundSkipsDuplicateReversal(t *testing.T) {
	customerID := int64(10)
	svc, _, loyalty, bus := newTestService(testOrder(&customerID))

	payment, err := svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 5, Amount: 40, Method: domain.PaymentMethodCash,
	})
	require.NoError(t, err)

	loyalty.existing[domain.LoyaltyEarned] = &domain.LoyaltyTransaction{
		PaymentID: &payment.ID, Type: domain.LoyaltyEarned, Points: 40,
	}
	loyalty.existing[domain.LoyaltyAdjusted] = &domain.LoyaltyTransaction{
		PaymentID: &payment.ID, Type: domain.LoyaltyAdjusted, Points: -40,
	}

	_, err = svc.Refund(context.Background(), 1, payment.ID)
	require.NoError(t, err)

	// Only the first accrual; the reversal already existed.
	assert.Len(t, loyalty.commands, 1)
	bus.Drain()
}

func TestRefundTwiceIsConflict(t *testing.T) {
	svc, _, _, bus := newTestService(testOrder(nil))

	payment, err := svc.Record(context.Background(), 1, interfaces.RecordPaymentCommand{
		OrderID: 5, Amount: 40, Method: domain.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), 1, payment.ID)
	require.NoError(t, err)

	_, err = svc.Refund(context.Background(), 1, payment.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	bus.Drain()
}

func TestSummaryForOrder(t *testing.T) {
	svc, _, _, bus := newTestService(testOrder(nil))
	ctx := context.Background()

	_, err := svc.Record(ctx, 1, interfaces.RecordPaymentCommand{OrderID: 5, Amount: 40, Method: domain.PaymentMethodCash})
	require.NoError(t, err)
	refundable, err := svc.Record(ctx, 1, interfaces.RecordPaymentCommand{OrderID: 5, Amount: 30, Method: domain.PaymentMethodCash})
	require.NoError(t, err)
	_, err = svc.Record(ctx, 1, interfaces.RecordPaymentCommand{OrderID: 5, Amount: 60, Method: domain.PaymentMethodCash})
	require.NoError(t, err)

	_, err = svc.Refund(ctx, 1, refundable.ID)
	require.NoError(t, err)

	summary, err := svc.SummaryForOrder(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.PaidAmount)
	assert.Equal(t, domain.PaymentStatePaid, summary.Status)
	bus.Drain()
}
