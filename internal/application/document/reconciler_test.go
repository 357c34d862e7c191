package document

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	invapp "github.com/vetclinic/backend/internal/application/inventory"
	"github.com/vetclinic/backend/internal/application/uow"
	"github.com/vetclinic/backend/internal/domain/audit"
	"github.com/vetclinic/backend/internal/domain/billing"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/shared"
	"github.com/vetclinic/backend/internal/infrastructure/persistence"
	"github.com/vetclinic/backend/tests/testutil"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type countingRecorder struct {
	mu      sync.Mutex
	issued  map[string]int
	retried map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{issued: map[string]int{}, retried: map[string]int{}}
}

func (c *countingRecorder) DocumentIssued(series string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[series]++
}

func (c *countingRecorder) NumberRetried(series string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.retried[series]++
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*audit.RecordChanged
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range events {
		if rc, ok := e.(*audit.RecordChanged); ok {
			p.events = append(p.events, rc)
		}
	}
	return nil
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action + " " + e.Module + " " + e.RecordName
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	svc       *Reconciler
	recorder  *countingRecorder
	publisher *recordingPublisher
	actor     uuid.UUID
}

func newFixture(t *testing.T, policy inventory.NegativeStockPolicy, wrap func(uow.TransactionScope) uow.TransactionScope) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	var scope uow.TransactionScope = persistence.NewGormTransactionScope(db)
	if wrap != nil {
		scope = wrap(scope)
	}
	rec := newCountingRecorder()
	pub := &recordingPublisher{}
	svc := NewReconciler(scope, invapp.NewLedger(policy, zap.NewNop()), Readers{
		Invoices:         persistence.NewGormInvoiceRepository(db),
		WalkInInvoices:   persistence.NewGormWalkInInvoiceRepository(db),
		PurchaseOrders:   persistence.NewGormPurchaseOrderRepository(db),
		ReceivingReports: persistence.NewGormReceivingReportRepository(db),
	}, zap.NewNop(), WithRecorder(rec), WithClock(func() time.Time { return fixedNow }))
	svc.SetEventPublisher(pub)
	return &fixture{db: db, svc: svc, recorder: rec, publisher: pub, actor: uuid.New()}
}

func lineFor(item *inventory.StockItem, qty int) LineRequest {
	return LineRequest{ItemID: item.ID, Quantity: qty, UnitPrice: item.UnitPrice}
}

func TestReconciler_CreateInvoice(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	ctx := context.Background()
	amox := testutil.SeedProduct(t, f.db, "AMOX", 10, 25)
	consult := testutil.SeedServiceItem(t, f.db, "CONSULT", 500)

	resp, err := f.svc.CreateInvoice(ctx, CreateInvoiceRequest{
		ClientID: uuid.New(),
		Notes:    "follow-up in 2 weeks",
		Items:    []LineRequest{lineFor(amox, 3), lineFor(consult, 1)},
	}, f.actor)

	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", resp.InvoiceNumber)
	assert.Equal(t, "Unpaid", resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(575)), resp.TotalAmount.String())
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Product AMOX", resp.Items[0].ItemName)
	assert.Equal(t, 7, testutil.QuantityOf(t, f.db, amox.ID))
	assert.Equal(t, 0, testutil.QuantityOf(t, f.db, consult.ID))
	assert.Equal(t, 1, f.recorder.issued["INV"])
	assert.Equal(t, []string{"CREATE Invoice INV-2025-0001"}, f.publisher.actions())

	second, err := f.svc.CreateInvoice(ctx, CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 1)}}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0002", second.InvoiceNumber)

	got, err := f.svc.GetInvoice(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "follow-up in 2 weeks", got.Notes)
	assert.Len(t, got.Items, 2)
}

func TestReconciler_CreateInvoice_RejectsBeforeTouchingStore(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	ctx := context.Background()
	amox := testutil.SeedProduct(t, f.db, "AMOX", 10, 25)

	tests := []struct {
		name    string
		req     CreateInvoiceRequest
		actor   uuid.UUID
		wantErr error
		code    string
	}{
		{"missing actor", CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 1)}}, uuid.Nil, shared.ErrMissingActor, "MISSING_ACTOR"},
		{"no lines", CreateInvoiceRequest{ClientID: uuid.New()}, f.actor, shared.ErrInvalidInput, "INVALID_LINE_ITEMS"},
		{"zero quantity", CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 0)}}, f.actor, shared.ErrInvalidInput, "INVALID_LINE_ITEMS"},
		{"negative price", CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{{ItemID: amox.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}}, f.actor, shared.ErrInvalidInput, "INVALID_LINE_ITEMS"},
		{"unknown item", CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{{ItemID: uuid.New(), Quantity: 1}}}, f.actor, shared.ErrInvalidInput, "INVALID_LINE_ITEMS"},
		{"missing client", CreateInvoiceRequest{Items: []LineRequest{lineFor(amox, 1)}}, f.actor, shared.ErrInvalidInput, "INVALID_CLIENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateInvoice(ctx, tt.req, tt.actor)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}

	assert.Equal(t, 10, testutil.QuantityOf(t, f.db, amox.ID))
	assert.Empty(t, f.publisher.actions())

	// no number was consumed by the failures
	resp, err := f.svc.CreateInvoice(ctx, CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 1)}}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", resp.InvoiceNumber)
}

func TestReconciler_RejectPolicyRollsBackEverything(t *testing.T) {
	f := newFixture(t, inventory.RejectInsufficient, nil)
	ctx := context.Background()
	plenty := testutil.SeedProduct(t, f.db, "GAUZE", 50, 5)
	scarce := testutil.SeedProduct(t, f.db, "VAX", 1, 300)

	_, err := f.svc.CreateWalkInInvoice(ctx, CreateWalkInInvoiceRequest{
		CustomerName: "Maria Santos",
		Items:        []LineRequest{lineFor(plenty, 5), lineFor(scarce, 2)},
	}, f.actor)

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 50, testutil.QuantityOf(t, f.db, plenty.ID))
	assert.Equal(t, 1, testutil.QuantityOf(t, f.db, scarce.ID))

	list, total, err := f.svc.ListWalkInInvoices(ctx, WalkInInvoiceListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	assert.Empty(t, f.publisher.actions())
}

func TestReconciler_AllowPolicyGoesNegative(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	scarce := testutil.SeedProduct(t, f.db, "VAX", 1, 300)

	_, err := f.svc.CreateWalkInInvoice(context.Background(), CreateWalkInInvoiceRequest{
		CustomerName: "Maria Santos",
		Items:        []LineRequest{lineFor(scarce, 3)},
	}, f.actor)

	require.NoError(t, err)
	assert.Equal(t, -2, testutil.QuantityOf(t, f.db, scarce.ID))
}

func TestReconciler_WalkInInvoiceLifecycle(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	ctx := context.Background()
	shampoo := testutil.SeedProduct(t, f.db, "SHAMPOO", 8, 150)

	created, err := f.svc.CreateWalkInInvoice(ctx, CreateWalkInInvoiceRequest{
		CustomerName:  "  Jose Reyes ",
		CustomerPhone: "0917 123 4567",
		PetName:       "Bantay",
		PetSpecies:    "Dog",
		Items:         []LineRequest{lineFor(shampoo, 2)},
	}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "WI-2025-0001", created.InvoiceNumber)
	assert.Equal(t, "Jose Reyes", created.CustomerName)
	assert.Equal(t, "+639171234567", created.CustomerPhone)
	assert.Equal(t, 6, testutil.QuantityOf(t, f.db, shampoo.ID))

	_, err = f.svc.PayWalkInInvoice(ctx, created.ID, PayWalkInInvoiceRequest{PaymentMethod: "Cash", CashAmount: decimal.NewFromInt(100)}, f.actor)
	require.Error(t, err)

	paid, err := f.svc.PayWalkInInvoice(ctx, created.ID, PayWalkInInvoiceRequest{
		PaymentMethod:  "Cash+GCash",
		CashAmount:     decimal.NewFromInt(100),
		GCashAmount:    decimal.NewFromInt(200),
		GCashReference: "GC-778899",
	}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Paid", paid.Status)

	edited, err := f.svc.UpdateWalkInInvoice(ctx, created.ID, UpdateWalkInInvoiceRequest{CustomerName: "Jose M. Reyes", Notes: "regular"}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Jose M. Reyes", edited.CustomerName)

	_, err = f.svc.CreateWalkInInvoice(ctx, CreateWalkInInvoiceRequest{
		CustomerName: "Bad Phone", CustomerPhone: "12", Items: []LineRequest{lineFor(shampoo, 1)},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	require.NoError(t, f.svc.DeleteWalkInInvoice(ctx, created.ID, f.actor))
	assert.Equal(t, 8, testutil.QuantityOf(t, f.db, shampoo.ID))
	_, err = f.svc.GetWalkInInvoice(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReconciler_DeleteInvoiceRestoresStock(t *testing.T) {
	f := newFixture(t, inventory.RejectInsufficient, nil)
	ctx := context.Background()
	amox := testutil.SeedProduct(t, f.db, "AMOX", 10, 25)

	inv, err := f.svc.CreateInvoice(ctx, CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 4), lineFor(amox, 2)}}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, 4, testutil.QuantityOf(t, f.db, amox.ID))

	require.NoError(t, f.svc.DeleteInvoice(ctx, inv.ID, f.actor))
	assert.Equal(t, 10, testutil.QuantityOf(t, f.db, amox.ID))
	assert.ErrorIs(t, f.svc.DeleteInvoice(ctx, inv.ID, f.actor), shared.ErrNotFound)
	assert.Equal(t, []string{"CREATE Invoice INV-2025-0001", "DELETE Invoice INV-2025-0001"}, f.publisher.actions())
}

func TestReconciler_UpdateInvoiceStatus(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	ctx := context.Background()
	amox := testutil.SeedProduct(t, f.db, "AMOX", 10, 25)
	inv, err := f.svc.CreateInvoice(ctx, CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 1)}}, f.actor)
	require.NoError(t, err)

	paid, err := f.svc.UpdateInvoiceStatus(ctx, inv.ID, UpdateInvoiceStatusRequest{Status: "Paid", Notes: "settled"}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Paid", paid.Status)

	_, err = f.svc.UpdateInvoiceStatus(ctx, inv.ID, UpdateInvoiceStatusRequest{Status: "Unpaid"}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	list, total, err := f.svc.ListInvoices(ctx, InvoiceListFilter{Status: "Paid"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "settled", list[0].Notes)
}

func TestReconciler_PurchaseOrderReceiving(t *testing.T) {
	f := newFixture(t, inventory.RejectInsufficient, nil)
	ctx := context.Background()
	syringe := testutil.SeedProduct(t, f.db, "SYRINGE", 0, 8)
	gloves := testutil.SeedProduct(t, f.db, "GLOVES", 4, 2)
	supplier := testutil.SeedSupplier(t, f.db, "PetMed Supply").ID

	po, err := f.svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderRequest{
		SupplierID: supplier,
		Items:      []LineRequest{lineFor(syringe, 100), lineFor(gloves, 50)},
	}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "PO-2025-0001", po.PONumber)
	assert.Equal(t, "Pending", po.Status)
	// ordering moves no stock
	assert.Equal(t, 0, testutil.QuantityOf(t, f.db, syringe.ID))

	approved, err := f.svc.ApprovePurchaseOrder(ctx, po.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Approved", approved.Status)

	// 150 of 150 units arrive, but gloves are still short: status is per line
	first, err := f.svc.CreateReceivingReport(ctx, CreateReceivingReportRequest{
		PurchaseOrderID: &po.ID,
		Items: []ReceivingLineRequest{
			{ItemID: syringe.ID, QuantityReceived: 110, QuantityRejected: 3, UnitPrice: syringe.UnitPrice},
			{ItemID: gloves.ID, QuantityReceived: 40, UnitPrice: gloves.UnitPrice},
		},
	}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "RR-2025-0001", first.RRNumber)
	assert.Equal(t, supplier, first.SupplierID)
	assert.Equal(t, 110, testutil.QuantityOf(t, f.db, syringe.ID))
	assert.Equal(t, 44, testutil.QuantityOf(t, f.db, gloves.ID))

	partial, err := f.svc.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "Partially Received", partial.Status)

	second, err := f.svc.CreateReceivingReport(ctx, CreateReceivingReportRequest{
		PurchaseOrderID: &po.ID,
		Items:           []ReceivingLineRequest{{ItemID: gloves.ID, QuantityReceived: 10, UnitPrice: gloves.UnitPrice}},
	}, f.actor)
	require.NoError(t, err)

	received, err := f.svc.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "Received", received.Status)

	// a received order takes no more receiving reports
	_, err = f.svc.CreateReceivingReport(ctx, CreateReceivingReportRequest{
		PurchaseOrderID: &po.ID,
		Items:           []ReceivingLineRequest{{ItemID: gloves.ID, QuantityReceived: 1}},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, 54, testutil.QuantityOf(t, f.db, gloves.ID))

	assert.ErrorIs(t, f.svc.DeletePurchaseOrder(ctx, po.ID, f.actor), shared.ErrInvalidState)

	require.NoError(t, f.svc.DeleteReceivingReport(ctx, second.ID, f.actor))
	back, err := f.svc.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "Partially Received", back.Status)
	assert.Equal(t, 44, testutil.QuantityOf(t, f.db, gloves.ID))

	require.NoError(t, f.svc.DeleteReceivingReport(ctx, first.ID, f.actor))
	restored, err := f.svc.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "Approved", restored.Status)
	assert.Equal(t, 0, testutil.QuantityOf(t, f.db, syringe.ID))
	assert.Equal(t, 4, testutil.QuantityOf(t, f.db, gloves.ID))

	require.NoError(t, f.svc.DeletePurchaseOrder(ctx, po.ID, f.actor))
	_, err = f.svc.GetPurchaseOrder(ctx, po.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReconciler_DeleteReceivingReportRefusedWhenStockWasConsumed(t *testing.T) {
	f := newFixture(t, inventory.RejectInsufficient, nil)
	ctx := context.Background()
	vax := testutil.SeedProduct(t, f.db, "VAX", 0, 300)

	rr, err := f.svc.CreateReceivingReport(ctx, CreateReceivingReportRequest{
		SupplierID: testutil.SeedSupplier(t, f.db, "VaxDirect").ID,
		Items:      []ReceivingLineRequest{{ItemID: vax.ID, QuantityReceived: 5, UnitPrice: vax.UnitPrice}},
	}, f.actor)
	require.NoError(t, err)
	assert.Nil(t, rr.PurchaseOrderID)

	_, err = f.svc.CreateInvoice(ctx, CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(vax, 4)}}, f.actor)
	require.NoError(t, err)

	err = f.svc.DeleteReceivingReport(ctx, rr.ID, f.actor)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 1, testutil.QuantityOf(t, f.db, vax.ID))
	_, err = f.svc.GetReceivingReport(ctx, rr.ID)
	assert.NoError(t, err)
}

func TestReconciler_PurchaseOrderEdits(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	ctx := context.Background()
	item := testutil.SeedProduct(t, f.db, "LEASH", 0, 90)
	po, err := f.svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderRequest{SupplierID: testutil.SeedSupplier(t, f.db, "Leash & Co").ID, Items: []LineRequest{lineFor(item, 10)}}, f.actor)
	require.NoError(t, err)

	expected := fixedNow.AddDate(0, 0, 7)
	updated, err := f.svc.UpdatePurchaseOrder(ctx, po.ID, UpdatePurchaseOrderRequest{ExpectedDate: &expected, Notes: "rush"}, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "rush", updated.Notes)
	require.NotNil(t, updated.ExpectedDate)

	cancelled, err := f.svc.CancelPurchaseOrder(ctx, po.ID, f.actor)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", cancelled.Status)

	_, err = f.svc.ApprovePurchaseOrder(ctx, po.ID, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = f.svc.CreateReceivingReport(ctx, CreateReceivingReportRequest{
		PurchaseOrderID: &po.ID,
		Items:           []ReceivingLineRequest{{ItemID: item.ID, QuantityReceived: 1}},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, 0, testutil.QuantityOf(t, f.db, item.ID))

	orders, total, err := f.svc.ListPurchaseOrders(ctx, PurchaseOrderListFilter{Status: "Cancelled"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, po.ID, orders[0].ID)
}

// flakyScope makes the invoice insert of the first failures transactions
// report a duplicate number, as losing a race to a concurrent writer would.
type flakyScope struct {
	inner    uow.TransactionScope
	failures int
	calls    int
}

func (s *flakyScope) Execute(ctx context.Context, fn func(repos uow.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos uow.TransactionalRepositories) error {
		s.calls++
		if s.calls <= s.failures {
			return fn(flakyRepos{TransactionalRepositories: repos})
		}
		return fn(repos)
	})
}

type flakyRepos struct {
	uow.TransactionalRepositories
}

func (r flakyRepos) InvoiceRepo() billing.InvoiceRepository {
	return duplicateInvoices{InvoiceRepository: r.TransactionalRepositories.InvoiceRepo()}
}

type duplicateInvoices struct {
	billing.InvoiceRepository
}

func (duplicateInvoices) Create(context.Context, *billing.Invoice) error {
	return shared.ErrDuplicateNumber
}

func TestReconciler_RetriesDuplicateNumberOnce(t *testing.T) {
	var flaky *flakyScope
	f := newFixture(t, inventory.AllowNegative, func(inner uow.TransactionScope) uow.TransactionScope {
		flaky = &flakyScope{inner: inner, failures: 1}
		return flaky
	})
	amox := testutil.SeedProduct(t, f.db, "AMOX", 10, 25)

	resp, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 2)}}, f.actor)

	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", resp.InvoiceNumber)
	assert.Equal(t, 2, flaky.calls)
	assert.Equal(t, 1, f.recorder.retried["INV"])
	// the failed attempt's counter increment was rolled back, so its number is reused
	assert.Equal(t, 8, testutil.QuantityOf(t, f.db, amox.ID))
}

func TestReconciler_GivesUpAfterSecondDuplicate(t *testing.T) {
	var flaky *flakyScope
	f := newFixture(t, inventory.AllowNegative, func(inner uow.TransactionScope) uow.TransactionScope {
		flaky = &flakyScope{inner: inner, failures: 5}
		return flaky
	})
	amox := testutil.SeedProduct(t, f.db, "AMOX", 10, 25)

	_, err := f.svc.CreateInvoice(context.Background(), CreateInvoiceRequest{ClientID: uuid.New(), Items: []LineRequest{lineFor(amox, 2)}}, f.actor)

	assert.ErrorIs(t, err, shared.ErrDuplicateNumber)
	assert.Equal(t, 2, flaky.calls)
	assert.Equal(t, 10, testutil.QuantityOf(t, f.db, amox.ID))
	assert.Zero(t, f.recorder.issued["INV"])
	assert.Empty(t, f.publisher.actions())
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, ...shared.DomainEvent) error {
	return assert.AnError
}

func TestReconciler_PublishFailureDoesNotSurface(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	f.svc.SetEventPublisher(failingPublisher{})
	item := testutil.SeedProduct(t, f.db, "BOWL", 3, 60)

	_, err := f.svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderRequest{
		SupplierID: testutil.SeedSupplier(t, f.db, "PetMed Supply").ID,
		Items:      []LineRequest{lineFor(item, 1)},
	}, f.actor)
	assert.NoError(t, err)
}

func TestReconciler_UnknownSupplierIsNotFound(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	ctx := context.Background()
	item := testutil.SeedProduct(t, f.db, "BOWL", 3, 60)

	_, err := f.svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderRequest{
		SupplierID: uuid.New(),
		Items:      []LineRequest{lineFor(item, 1)},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.svc.CreateReceivingReport(ctx, CreateReceivingReportRequest{
		SupplierID: uuid.New(),
		Items:      []ReceivingLineRequest{{ItemID: item.ID, QuantityReceived: 2, UnitPrice: item.UnitPrice}},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// nothing was issued or stocked
	assert.Equal(t, 3, testutil.QuantityOf(t, f.db, item.ID))
	assert.Zero(t, f.recorder.issued["PO"])
	assert.Zero(t, f.recorder.issued["RR"])
	orders, total, err := f.svc.ListPurchaseOrders(ctx, PurchaseOrderListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestReconciler_ReceivingReportNeedsSupplierOrOrder(t *testing.T) {
	f := newFixture(t, inventory.AllowNegative, nil)
	item := testutil.SeedProduct(t, f.db, "BOWL", 3, 60)

	_, err := f.svc.CreateReceivingReport(context.Background(), CreateReceivingReportRequest{
		Items: []ReceivingLineRequest{{ItemID: item.ID, QuantityReceived: 1}},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.svc.CreateReceivingReport(context.Background(), CreateReceivingReportRequest{
		SupplierID: uuid.New(),
		Items:      []ReceivingLineRequest{{ItemID: item.ID, QuantityReceived: 1, QuantityRejected: -1}},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	missing := uuid.New()
	_, err = f.svc.CreateReceivingReport(context.Background(), CreateReceivingReportRequest{
		PurchaseOrderID: &missing,
		Items:           []ReceivingLineRequest{{ItemID: item.ID, QuantityReceived: 1}},
	}, f.actor)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, 3, testutil.QuantityOf(t, f.db, item.ID))
}
