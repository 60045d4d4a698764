package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
)

// OrderService собирает позиции из пользовательского ввода и пишет заказ
// двумя шагами: заголовок, затем позиции. Шаги не обёрнуты в транзакцию,
// поэтому при падении второго шага заголовок компенсируется удалением.
type OrderService struct {
	products  repository.ProductRepository
	orders    repository.OrderRepository
	relations repository.RelationRepository
	log       *logrus.Logger
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, relations repository.RelationRepository, log *logrus.Logger) *OrderService {
	return &OrderService{products: products, orders: orders, relations: relations, log: log}
}

var (
	// ErrSelfOrder заказ самому себе
	ErrSelfOrder = errors.New("from and to store are the same")
	// ErrEmptyLine в позиции и штуки, и коробки нулевые
	ErrEmptyLine = errors.New("both pcs and ctn are zero")
	// ErrInvalidQuantity отрицательное количество или коробки у поштучного товара
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrNotConnected продавец не связан с покупателем
	ErrNotConnected = errors.New("no relation with the seller")
	// ErrForeignProduct товар не принадлежит выбранному продавцу
	ErrForeignProduct = errors.New("product does not belong to the seller")
)

// DuplicateProductError один и тот же товар выбран в нескольких позициях.
// ProductIDs перечисляет все повторяющиеся товары заказа.
type DuplicateProductError struct {
	ProductIDs []int64
}

func (e *DuplicateProductError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = fmt.Sprint(id)
	}
	return "duplicate products in order: " + strings.Join(ids, ", ")
}

// OrphanedOrderError компенсация не удалась: заголовок заказа остался без
// позиций и требует ручной сверки.
type OrphanedOrderError struct {
	OrderID   int64
	LineErr   error
	DeleteErr error
}

func (e *OrphanedOrderError) Error() string {
	return fmt.Sprintf("order %d left without lines: insert failed (%v), compensation failed (%v)", e.OrderID, e.LineErr, e.DeleteErr)
}

func (e *OrphanedOrderError) Unwrap() error { return e.LineErr }

// LineInput кандидат позиции из пользовательского выбора
type LineInput struct {
	ProductID int64 `json:"product_id"`
	QtyInPcs  int64 `json:"qty_in_pcs"`
	QtyInCtn  int64 `json:"qty_in_ctn"`
}

// BuildLines валидирует набор кандидатов и возвращает упорядоченный список
// позиций с общей суммой. Количества нормализуются заново на сервере,
// присланные клиентом суммы игнорируются.
func (s *OrderService) BuildLines(ctx context.Context, from, to uuid.UUID, inputs []LineInput) ([]domain.OrderLine, decimal.Decimal, error) {
	if from == uuid.Nil || to == uuid.Nil || len(inputs) == 0 {
		return nil, decimal.Zero, ErrInvalidInput
	}
	if from == to {
		return nil, decimal.Zero, ErrSelfOrder
	}

	connected, err := s.relations.RelationExists(ctx, from, to)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if !connected {
		return nil, decimal.Zero, ErrNotConnected
	}

	// collect every duplicated product, not just the first
	seen := make(map[int64]int)
	for _, in := range inputs {
		seen[in.ProductID]++
	}
	var dups []int64
	for _, in := range inputs {
		if seen[in.ProductID] > 1 {
			seen[in.ProductID] = -1 // report each product once
			dups = append(dups, in.ProductID)
		}
	}
	if len(dups) > 0 {
		return nil, decimal.Zero, &DuplicateProductError{ProductIDs: dups}
	}

	lines := make([]domain.OrderLine, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if in.QtyInPcs < 0 || in.QtyInCtn < 0 {
			return nil, decimal.Zero, ErrInvalidQuantity
		}
		if in.QtyInPcs == 0 && in.QtyInCtn == 0 {
			return nil, decimal.Zero, ErrEmptyLine
		}

		p, err := s.products.GetProductByID(ctx, in.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p.SellerUID != to {
			return nil, decimal.Zero, ErrForeignProduct
		}
		if p.QtyInCtn == nil && in.QtyInCtn != 0 {
			// piece-only product has no carton concept
			return nil, decimal.Zero, ErrInvalidQuantity
		}

		q, ok := domain.Normalize(p.QtyInCtn, domain.EditPcs, in.QtyInPcs, domain.Quantity{Ctn: in.QtyInCtn})
		if !ok {
			return nil, decimal.Zero, ErrInvalidQuantity
		}
		lineTotal := domain.LineTotal(p.QtyInCtn, q, p.Rate)
		lines = append(lines, domain.OrderLine{
			ProductID: p.ID,
			QtyInPcs:  q.Pcs,
			QtyInCtn:  q.Ctn,
			Rate:      p.Rate,
			Total:     lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return lines, total, nil
}

// PlaceOrder пишет заголовок, затем позиции. Если позиции не записались,
// осиротевший заголовок удаляется; неудачная компенсация поднимается как
// OrphanedOrderError и логируется для ручной сверки.
func (s *OrderService) PlaceOrder(ctx context.Context, from, to, placedBy uuid.UUID, inputs []LineInput) (*domain.Order, error) {
	if placedBy == uuid.Nil {
		return nil, ErrInvalidInput
	}
	lines, amount, err := s.BuildLines(ctx, from, to, inputs)
	if err != nil {
		return nil, err
	}

	order := domain.Order{
		FromStore: from,
		ToStore:   to,
		Amount:    amount,
		PlacedBy:  placedBy,
	}
	orderID, err := s.orders.CreateOrderHeader(ctx, &order)
	if err != nil {
		return nil, fmt.Errorf("saving order: %w", err)
	}

	if err := s.orders.CreateOrderLines(ctx, orderID, lines); err != nil {
		if delErr := s.orders.DeleteOrderHeader(ctx, orderID); delErr != nil {
			orphan := &OrphanedOrderError{OrderID: orderID, LineErr: err, DeleteErr: delErr}
			s.log.WithFields(logrus.Fields{
				"module":   "service",
				"funcName": "PlaceOrder",
				"orderId":  orderID,
			}).Error(orphan.Error())
			return nil, orphan
		}
		return nil, fmt.Errorf("saving order lines: %w", err)
	}

	for i := range lines {
		lines[i].OrderID = orderID
	}
	order.Lines = lines
	return &order, nil
}

// GetOrder возвращает заказ с позициями
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.orders.GetOrderByID(ctx, id)
}

// ListOrders заказы, где бизнес выступает покупателем или продавцом
func (s *OrderService) ListOrders(ctx context.Context, store uuid.UUID) ([]domain.Order, error) {
	if store == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return s.orders.ListOrdersByStore(ctx, store)
}
