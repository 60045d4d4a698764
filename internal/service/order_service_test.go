package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setup(t *testing.T) (*repository.MemoryStore, *OrderService, *RelationService) {
	t.Helper()
	store := repository.NewMemoryStore()
	orders := NewOrderService(store, store, store, testLogger())
	relations := NewRelationService(store, store)
	return store, orders, relations
}

// connectPair устанавливает связь покупатель→продавец и заводит два товара продавца
func connectPair(t *testing.T, store *repository.MemoryStore, relations *RelationService) (customer, seller uuid.UUID, cartoned, pieceOnly int64) {
	t.Helper()
	ctx := context.Background()
	customer, seller = uuid.New(), uuid.New()
	if _, err := relations.EstablishRelation(ctx, customer, seller); err != nil {
		t.Fatalf("establish relation: %v", err)
	}
	size := int64(10)
	p1 := domain.Product{SellerUID: seller, ProductName: "Soap", Rate: decimal.NewFromInt(3), QtyInCtn: &size}
	if err := store.CreateProduct(ctx, &p1); err != nil {
		t.Fatalf("create p1: %v", err)
	}
	p2 := domain.Product{SellerUID: seller, ProductName: "Bucket", Rate: decimal.NewFromInt(20)}
	if err := store.CreateProduct(ctx, &p2); err != nil {
		t.Fatalf("create p2: %v", err)
	}
	return customer, seller, p1.ID, p2.ID
}

func TestBuildLines_NormalizesAndTotals(t *testing.T) {
	ctx := context.Background()
	store, orders, relations := setup(t)
	customer, seller, cartoned, pieceOnly := connectPair(t, store, relations)

	lines, total, err := orders.BuildLines(ctx, customer, seller, []LineInput{
		{ProductID: cartoned, QtyInPcs: 15, QtyInCtn: 0}, // folds into (5, 1)
		{ProductID: pieceOnly, QtyInPcs: 2},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if lines[0].QtyInPcs != 5 || lines[0].QtyInCtn != 1 {
		t.Fatalf("expected (5,1), got (%d,%d)", lines[0].QtyInPcs, lines[0].QtyInCtn)
	}
	// 15*3 + 2*20 = 85
	if !total.Equal(decimal.NewFromInt(85)) {
		t.Fatalf("expected total 85, got %s", total)
	}
}

func TestBuildLines_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	store, orders, relations := setup(t)
	customer, seller, cartoned, pieceOnly := connectPair(t, store, relations)

	if _, _, err := orders.BuildLines(ctx, customer, customer, []LineInput{{ProductID: cartoned, QtyInPcs: 1}}); err != ErrSelfOrder {
		t.Fatalf("expected self order, got %v", err)
	}
	if _, _, err := orders.BuildLines(ctx, customer, seller, []LineInput{{ProductID: cartoned}}); err != ErrEmptyLine {
		t.Fatalf("expected empty line, got %v", err)
	}
	if _, _, err := orders.BuildLines(ctx, customer, seller, []LineInput{{ProductID: cartoned, QtyInPcs: -1}}); err != ErrInvalidQuantity {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	// cartons for a piece-only product
	if _, _, err := orders.BuildLines(ctx, customer, seller, []LineInput{{ProductID: pieceOnly, QtyInCtn: 1}}); err != ErrInvalidQuantity {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	// stranger without a relation
	if _, _, err := orders.BuildLines(ctx, uuid.New(), seller, []LineInput{{ProductID: cartoned, QtyInPcs: 1}}); err != ErrNotConnected {
		t.Fatalf("expected not connected, got %v", err)
	}
}

func TestBuildLines_ReportsAllDuplicates(t *testing.T) {
	ctx := context.Background()
	store, orders, relations := setup(t)
	customer, seller, cartoned, pieceOnly := connectPair(t, store, relations)

	_, _, err := orders.BuildLines(ctx, customer, seller, []LineInput{
		{ProductID: cartoned, QtyInPcs: 1},
		{ProductID: cartoned, QtyInPcs: 2},
		{ProductID: pieceOnly, QtyInPcs: 1},
		{ProductID: pieceOnly, QtyInPcs: 3},
	})
	var dup *DuplicateProductError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate product error, got %v", err)
	}
	if len(dup.ProductIDs) != 2 {
		t.Fatalf("expected both duplicates reported, got %v", dup.ProductIDs)
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	store, orders, relations := setup(t)
	customer, seller, cartoned, _ := connectPair(t, store, relations)
	placedBy := uuid.New()

	o, err := orders.PlaceOrder(ctx, customer, seller, placedBy, []LineInput{
		{ProductID: cartoned, QtyInPcs: 8},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.OrderID == 0 {
		t.Fatalf("no order id")
	}
	if !o.Amount.Equal(decimal.NewFromInt(24)) {
		t.Fatalf("expected amount 24, got %s", o.Amount)
	}

	got, err := orders.GetOrder(ctx, o.OrderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].OrderID != o.OrderID {
		t.Fatalf("lines not persisted: %+v", got.Lines)
	}
}

// failingOrderRepo подменяет шаги записи для проверки компенсации
type failingOrderRepo struct {
	repository.OrderRepository
	failLines  bool
	failDelete bool
	deleted    []int64
}

var errStoreDown = errors.New("store down")

func (f *failingOrderRepo) CreateOrderLines(ctx context.Context, orderID int64, lines []domain.OrderLine) error {
	if f.failLines {
		return errStoreDown
	}
	return f.OrderRepository.CreateOrderLines(ctx, orderID, lines)
}

func (f *failingOrderRepo) DeleteOrderHeader(ctx context.Context, orderID int64) error {
	f.deleted = append(f.deleted, orderID)
	if f.failDelete {
		return errStoreDown
	}
	return f.OrderRepository.DeleteOrderHeader(ctx, orderID)
}

func TestPlaceOrder_CompensatesHeaderOnLineFailure(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	failing := &failingOrderRepo{OrderRepository: store, failLines: true}
	orders := NewOrderService(store, failing, store, testLogger())
	relations := NewRelationService(store, store)
	customer, seller, cartoned, _ := connectPair(t, store, relations)

	_, err := orders.PlaceOrder(ctx, customer, seller, uuid.New(), []LineInput{
		{ProductID: cartoned, QtyInPcs: 1},
	})
	if err == nil || !errors.Is(err, errStoreDown) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	var orphan *OrphanedOrderError
	if errors.As(err, &orphan) {
		t.Fatalf("compensation succeeded, error must not be orphan: %v", err)
	}
	if len(failing.deleted) != 1 {
		t.Fatalf("header compensation not attempted: %v", failing.deleted)
	}
	// no ghost header left behind
	if _, err := store.GetOrderByID(ctx, failing.deleted[0]); err != repository.ErrNotFound {
		t.Fatalf("expected header gone, got %v", err)
	}
}

func TestPlaceOrder_OrphanedHeaderWhenCompensationFails(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	failing := &failingOrderRepo{OrderRepository: store, failLines: true, failDelete: true}
	orders := NewOrderService(store, failing, store, testLogger())
	relations := NewRelationService(store, store)
	customer, seller, cartoned, _ := connectPair(t, store, relations)

	_, err := orders.PlaceOrder(ctx, customer, seller, uuid.New(), []LineInput{
		{ProductID: cartoned, QtyInPcs: 1},
	})
	var orphan *OrphanedOrderError
	if !errors.As(err, &orphan) {
		t.Fatalf("expected orphaned order error, got %v", err)
	}
	if orphan.OrderID == 0 || orphan.LineErr == nil || orphan.DeleteErr == nil {
		t.Fatalf("orphan error missing detail: %+v", orphan)
	}
}
