package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupay-backend/internal/feeledger"
	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

// In-memory fakes standing in for the PostgreSQL-backed stores.

type fakeStore struct {
	mu         sync.Mutex
	students   map[string]*models.Student
	structures []*models.FeeStructure
	payments   []*models.PaymentRecord
	nextRcp    int

	commitErr error // injected infrastructure failure
}

func newFakeStore(students ...*models.Student) *fakeStore {
	f := &fakeStore{students: make(map[string]*models.Student)}
	for _, s := range students {
		copied := *s
		f.students[s.ID] = &copied
	}
	return f
}

func (f *fakeStore) Get(ctx context.Context, id string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) ListBySession(ctx context.Context, session string) ([]*models.FeeStructure, error) {
	return f.structures, nil
}

func (f *fakeStore) GenerateReceiptNumber(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextRcp++
	return fmt.Sprintf("RCP-%06d", f.nextRcp), nil
}

func (f *fakeStore) CommitPayment(ctx context.Context, student *models.Student, expectedPaid money.Amount, payment *models.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return f.commitErr
	}
	current, ok := f.students[student.ID]
	if !ok {
		return errors.New("no rows in result set")
	}
	if current.TotalPaid != expectedPaid {
		return ErrStalePaidTotal
	}
	copied := *student
	f.students[student.ID] = &copied
	f.payments = append(f.payments, payment)
	return nil
}

func testStudent() *models.Student {
	return &models.Student{
		ID:               "stu-1",
		Name:             "Alice Sharma",
		ClassName:        "Class 10",
		AcademicYear:     "2024-25",
		PreviousYearDues: money.FromRupees(2500),
		Discount:         money.FromRupees(500),
		TotalPaid:        money.FromRupees(10000),
		Status:           models.FeeStatusPartial,
	}
}

func testStructure() *models.FeeStructure {
	return &models.FeeStructure{
		ID:           "fs-1",
		ClassName:    "Class 10",
		AcademicYear: "2024-25",
		Total:        money.FromRupees(25000),
	}
}

func newTestService(store *fakeStore) *CollectionService {
	return NewCollectionService(store, store, store, nil, nil, nil)
}

func submitRequest(amount money.Amount) *models.SubmitPaymentRequest {
	return &models.SubmitPaymentRequest{
		StudentID:   "stu-1",
		Amount:      amount,
		PaymentType: models.PaymentTypePart,
		Method:      models.PaymentMethodCash,
	}
}

func TestSubmitPaymentAcceptsExactBalance(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}
	svc := newTestService(store)

	// gross 27500, net 27000, paid 10000: balance due is 17000
	result, err := svc.SubmitPayment(context.Background(), submitRequest(money.FromRupees(17000)), 1, "Cashier")
	require.NoError(t, err)

	assert.Equal(t, money.Amount(0), result.Balance.BalanceDue)
	assert.Equal(t, models.FeeStatusPaid, result.Student.Status)
	assert.Equal(t, money.FromRupees(27000), result.Student.TotalPaid)
	assert.Equal(t, "RCP-000001", result.Payment.ReceiptNumber)

	// the persisted student matches the returned one
	persisted, _ := store.Get(context.Background(), "stu-1")
	assert.Equal(t, result.Student.TotalPaid, persisted.TotalPaid)
	require.Len(t, store.payments, 1)
	assert.Equal(t, money.FromRupees(17000), store.payments[0].Amount)
}

func TestSubmitPaymentRejectsOverpayment(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}
	svc := newTestService(store)

	// one paisa over the outstanding balance
	_, err := svc.SubmitPayment(context.Background(), submitRequest(money.FromRupees(17000)+1), 1, "Cashier")
	require.Error(t, err)

	var rej *feeledger.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, feeledger.ExceedsOutstandingBalance, rej.Reason)
	assert.Equal(t, money.FromRupees(17000), rej.BalanceDue)

	// nothing was persisted
	persisted, _ := store.Get(context.Background(), "stu-1")
	assert.Equal(t, money.FromRupees(10000), persisted.TotalPaid)
	assert.Empty(t, store.payments)
}

func TestSubmitPaymentRejectsNonPositiveAmounts(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}
	svc := newTestService(store)

	for _, amount := range []money.Amount{0, money.FromRupees(-50)} {
		_, err := svc.SubmitPayment(context.Background(), submitRequest(amount), 1, "Cashier")
		var rej *feeledger.Rejection
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, feeledger.NonPositiveAmount, rej.Reason)
	}
}

func TestSubmitPaymentRejectsUnknownEnums(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}
	svc := newTestService(store)

	req := submitRequest(money.FromRupees(100))
	req.PaymentType = "WEEKLY"
	_, err := svc.SubmitPayment(context.Background(), req, 1, "Cashier")
	assert.ErrorContains(t, err, "unknown payment type")

	req = submitRequest(money.FromRupees(100))
	req.Method = "BARTER"
	_, err = svc.SubmitPayment(context.Background(), req, 1, "Cashier")
	assert.ErrorContains(t, err, "unknown payment method")
}

func TestSubmitPaymentSequenceStopsAtZeroBalance(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}
	svc := newTestService(store)

	_, err := svc.SubmitPayment(context.Background(), submitRequest(money.FromRupees(5000)), 1, "Cashier")
	require.NoError(t, err)
	result, err := svc.SubmitPayment(context.Background(), submitRequest(money.FromRupees(12000)), 1, "Cashier")
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPaid, result.Student.Status)

	// account is at zero: every further positive amount is refused
	_, err = svc.SubmitPayment(context.Background(), submitRequest(1), 1, "Cashier")
	var rej *feeledger.Rejection
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, feeledger.ExceedsOutstandingBalance, rej.Reason)
	assert.Equal(t, money.Amount(0), rej.BalanceDue)
}

func TestSubmitPaymentPersistenceFailureCarriesRecords(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}
	store.commitErr = errors.New("connection reset")
	svc := newTestService(store)

	_, err := svc.SubmitPayment(context.Background(), submitRequest(money.FromRupees(1000)), 1, "Cashier")
	require.Error(t, err)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, money.FromRupees(11000), pe.Student.TotalPaid)
	assert.Equal(t, money.FromRupees(1000), pe.Payment.Amount)
	assert.ErrorContains(t, pe.Err, "connection reset")
}

func TestConcurrentSubmissionsNeverOverpay(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}
	svc := newTestService(store)

	// Two cashiers race to collect the full 17000 balance. The per-student
	// lock serializes them; the second sees a zero balance and is refused.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitPayment(context.Background(), submitRequest(money.FromRupees(17000)), 1, "Cashier")
		}(i)
	}
	wg.Wait()

	var accepted, rejected int
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		var rej *feeledger.Rejection
		require.ErrorAs(t, err, &rej)
		rejected++
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, rejected)

	persisted, _ := store.Get(context.Background(), "stu-1")
	assert.Equal(t, money.FromRupees(27000), persisted.TotalPaid)
	assert.Len(t, store.payments, 1)
}

func TestSubmitPaymentStaleGuardMapsToConflict(t *testing.T) {
	store := newFakeStore(testStudent())
	store.structures = []*models.FeeStructure{testStructure()}

	svc := NewCollectionService(store, store, &shiftingLedger{store: store}, nil, nil, nil)
	_, err := svc.SubmitPayment(context.Background(), submitRequest(money.FromRupees(1000)), 1, "Cashier")
	assert.ErrorIs(t, err, ErrConcurrentMutation)
}

// shiftingLedger reports every commit as stale, standing in for a row
// whose total_paid moved between read and write.
type shiftingLedger struct {
	store *fakeStore
}

func (l *shiftingLedger) GenerateReceiptNumber(ctx context.Context) (string, error) {
	return l.store.GenerateReceiptNumber(ctx)
}

func (l *shiftingLedger) CommitPayment(ctx context.Context, student *models.Student, expectedPaid money.Amount, payment *models.PaymentRecord) error {
	return ErrStalePaidTotal
}

func TestComputeBalanceMissingStructureUsesDuesOnly(t *testing.T) {
	student := testStudent()
	student.TotalPaid = 0
	store := newFakeStore(student)
	// no structures registered for the session
	svc := newTestService(store)

	_, snap, err := svc.ComputeBalance(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, money.FromRupees(2500), snap.GrossTotal)
	assert.Equal(t, money.FromRupees(2000), snap.NetPayable)
	assert.Equal(t, money.FromRupees(2000), snap.BalanceDue)
}
