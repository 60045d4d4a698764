package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"dhandho/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrConflict условный переход не применился: статус уже не pending
var ErrConflict = errors.New("status conflict")

// ErrDuplicateRequest уже есть необработанная pending-заявка для той же пары
var ErrDuplicateRequest = errors.New("duplicate pending request")

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	CreateBusiness(ctx context.Context, b *domain.Business) error
	GetBusinessByUID(ctx context.Context, uid uuid.UUID) (*domain.Business, error)
	GetBusinessByPublicID(ctx context.Context, code string) (*domain.Business, error)
	SearchBusinesses(ctx context.Context, codeSubstring string) ([]domain.Business, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProductsBySeller(ctx context.Context, seller uuid.UUID) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, id int64, seller uuid.UUID) error
}

// OrderRepository двухшаговая запись заказа: заголовок и позиции пишутся
// отдельными вызовами, без общей транзакции. DeleteOrderHeader — компенсация,
// идемпотентна (повторное удаление не ошибка).
type OrderRepository interface {
	CreateOrderHeader(ctx context.Context, o *domain.Order) (int64, error)
	CreateOrderLines(ctx context.Context, orderID int64, lines []domain.OrderLine) error
	DeleteOrderHeader(ctx context.Context, orderID int64) error
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrdersByStore(ctx context.Context, store uuid.UUID) ([]domain.Order, error)
}

// RelationRepository установленные связи покупатель→продавец
type RelationRepository interface {
	// CreateRelation идемпотентна: существующая пара — не ошибка
	CreateRelation(ctx context.Context, r *domain.BusinessRelation) error
	RelationExists(ctx context.Context, customer, seller uuid.UUID) (bool, error)
	ListRelationsForBusiness(ctx context.Context, business uuid.UUID) ([]domain.BusinessRelation, error)
}

// BusinessRequestRepository заявки на связь. Resolve/Delete — условные
// операции, возвращают число затронутых строк: 0 означает, что строка
// уже не в ожидаемом состоянии.
type BusinessRequestRepository interface {
	CreateBusinessRequest(ctx context.Context, r *domain.BusinessRequest) error
	GetBusinessRequestByID(ctx context.Context, id int64) (*domain.BusinessRequest, error)
	ListBusinessRequestsForBusiness(ctx context.Context, business uuid.UUID) ([]domain.BusinessRequest, error)
	ResolveBusinessRequest(ctx context.Context, id int64, to uuid.UUID, status domain.RequestStatus) (int64, error)
	DeleteBusinessRequest(ctx context.Context, id int64, from uuid.UUID) (int64, error)
}

// EmployeeRequestRepository заявки на трудоустройство и учётные записи сотрудников
type EmployeeRequestRepository interface {
	CreateEmployeeRequest(ctx context.Context, r *domain.EmployeeRequest) error
	GetEmployeeRequestByID(ctx context.Context, id int64) (*domain.EmployeeRequest, error)
	GetEmployeeRequestByEmail(ctx context.Context, email string) (*domain.EmployeeRequest, error)
	ListEmployeeRequestsForBusiness(ctx context.Context, businessID string) ([]domain.EmployeeRequest, error)
	ResolveEmployeeRequest(ctx context.Context, id int64, businessID string, status domain.RequestStatus) (int64, error)
	// DeleteEmployeeRequest удаляет строку только в указанном статусе (claim на consume)
	DeleteEmployeeRequest(ctx context.Context, id int64, status domain.RequestStatus) (int64, error)
	// RestoreEmployeeRequest возвращает удалённую строку как есть, с её ID и
	// статусом: компенсация неудачного consume
	RestoreEmployeeRequest(ctx context.Context, r *domain.EmployeeRequest) error
	CreateEmployee(ctx context.Context, e *domain.Employee) error
	ListEmployeesByBusiness(ctx context.Context, worksAt uuid.UUID) ([]domain.Employee, error)
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
