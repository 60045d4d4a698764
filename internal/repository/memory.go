package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"dhandho/internal/domain"
)

// MemoryStore объединённое in-memory хранилище и простой генератор ID.
// Используется юнит-тестами сервисов; продакшен-реализация — GormStore.
type MemoryStore struct {
	mu              sync.RWMutex
	nextProductID   int64
	nextOrderID     int64
	nextRelationID  int64
	nextBizReqID    int64
	nextEmpReqID    int64
	nextEmployeeID  int64
	businessesByUID map[uuid.UUID]domain.Business
	productsByID    map[int64]domain.Product
	ordersByID      map[int64]domain.Order
	linesByOrderID  map[int64][]domain.OrderLine
	relationsByID   map[int64]domain.BusinessRelation
	bizReqsByID     map[int64]domain.BusinessRequest
	empReqsByID     map[int64]domain.EmployeeRequest
	employeesByID   map[int64]domain.Employee
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextProductID:   1,
		nextOrderID:     1,
		nextRelationID:  1,
		nextBizReqID:    1,
		nextEmpReqID:    1,
		nextEmployeeID:  1,
		businessesByUID: make(map[uuid.UUID]domain.Business),
		productsByID:    make(map[int64]domain.Product),
		ordersByID:      make(map[int64]domain.Order),
		linesByOrderID:  make(map[int64][]domain.OrderLine),
		relationsByID:   make(map[int64]domain.BusinessRelation),
		bizReqsByID:     make(map[int64]domain.BusinessRequest),
		empReqsByID:     make(map[int64]domain.EmployeeRequest),
		employeesByID:   make(map[int64]domain.Employee),
	}
}

// Ensure interfaces
var (
	_ BusinessRepository        = (*MemoryStore)(nil)
	_ ProductRepository         = (*MemoryStore)(nil)
	_ OrderRepository           = (*MemoryStore)(nil)
	_ RelationRepository        = (*MemoryStore)(nil)
	_ BusinessRequestRepository = (*MemoryStore)(nil)
	_ EmployeeRequestRepository = (*MemoryStore)(nil)
)

// BusinessRepository implementation

func (m *MemoryStore) CreateBusiness(ctx context.Context, b *domain.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.BusinessUID == uuid.Nil {
		b.BusinessUID = uuid.New()
	}
	for _, existing := range m.businessesByUID {
		if existing.BusinessID == b.BusinessID {
			return ErrConflict
		}
	}
	b.CreatedAt = time.Now().UTC()
	m.businessesByUID[b.BusinessUID] = *b
	return nil
}

func (m *MemoryStore) GetBusinessByUID(ctx context.Context, uid uuid.UUID) (*domain.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.businessesByUID[uid]
	if !ok {
		return nil, ErrNotFound
	}
	cp := b
	return &cp, nil
}

func (m *MemoryStore) GetBusinessByPublicID(ctx context.Context, code string) (*domain.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.businessesByUID {
		if b.BusinessID == code {
			cp := b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) SearchBusinesses(ctx context.Context, codeSubstring string) ([]domain.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Business, 0)
	for _, b := range m.businessesByUID {
		if containsIgnoreCase(b.BusinessID, codeSubstring) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ProductRepository implementation

func (m *MemoryStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextProductID
	m.nextProductID++
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) ListProductsBySeller(ctx context.Context, seller uuid.UUID) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if p.SellerUID == seller {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id int64, seller uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.productsByID[id]
	if !ok || p.SellerUID != seller {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

// OrderRepository implementation

func (m *MemoryStore) CreateOrderHeader(ctx context.Context, o *domain.Order) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.OrderID = m.nextOrderID
	m.nextOrderID++
	o.CreatedAt = time.Now().UTC()
	header := *o
	header.Lines = nil
	m.ordersByID[o.OrderID] = header
	return o.OrderID, nil
}

func (m *MemoryStore) CreateOrderLines(ctx context.Context, orderID int64, lines []domain.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]domain.OrderLine, len(lines))
	copy(stored, lines)
	for i := range stored {
		stored[i].OrderID = orderID
	}
	m.linesByOrderID[orderID] = stored
	return nil
}

func (m *MemoryStore) DeleteOrderHeader(ctx context.Context, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// idempotent: deleting a missing header is fine
	delete(m.ordersByID, orderID)
	delete(m.linesByOrderID, orderID)
	return nil
}

func (m *MemoryStore) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	cp.Lines = append([]domain.OrderLine(nil), m.linesByOrderID[id]...)
	return &cp, nil
}

func (m *MemoryStore) ListOrdersByStore(ctx context.Context, store uuid.UUID) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Order, 0)
	for id, o := range m.ordersByID {
		if o.FromStore == store || o.ToStore == store {
			cp := o
			cp.Lines = append([]domain.OrderLine(nil), m.linesByOrderID[id]...)
			out = append(out, cp)
		}
	}
	return out, nil
}

// RelationRepository implementation

func (m *MemoryStore) CreateRelation(ctx context.Context, r *domain.BusinessRelation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rel := range m.relationsByID {
		if rel.BusinessUID1 == r.BusinessUID1 && rel.BusinessUID2 == r.BusinessUID2 {
			// existing pair is a no-op
			*r = rel
			return nil
		}
	}
	r.RelationID = m.nextRelationID
	m.nextRelationID++
	r.CreatedAt = time.Now().UTC()
	m.relationsByID[r.RelationID] = *r
	return nil
}

func (m *MemoryStore) RelationExists(ctx context.Context, customer, seller uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rel := range m.relationsByID {
		if rel.BusinessUID1 == customer && rel.BusinessUID2 == seller {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListRelationsForBusiness(ctx context.Context, business uuid.UUID) ([]domain.BusinessRelation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.BusinessRelation, 0)
	for _, rel := range m.relationsByID {
		if rel.BusinessUID1 == business || rel.BusinessUID2 == business {
			out = append(out, rel)
		}
	}
	return out, nil
}

// BusinessRequestRepository implementation

func (m *MemoryStore) CreateBusinessRequest(ctx context.Context, r *domain.BusinessRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.bizReqsByID {
		if req.FromBusinessUID == r.FromBusinessUID && req.ToBusinessUID == r.ToBusinessUID &&
			req.RequestStatus == domain.RequestStatusPending {
			return ErrDuplicateRequest
		}
	}
	r.RequestID = m.nextBizReqID
	m.nextBizReqID++
	r.RequestStatus = domain.RequestStatusPending
	r.CreatedAt = time.Now().UTC()
	m.bizReqsByID[r.RequestID] = *r
	return nil
}

func (m *MemoryStore) GetBusinessRequestByID(ctx context.Context, id int64) (*domain.BusinessRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.bizReqsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (m *MemoryStore) ListBusinessRequestsForBusiness(ctx context.Context, business uuid.UUID) ([]domain.BusinessRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.BusinessRequest, 0)
	for _, r := range m.bizReqsByID {
		if r.FromBusinessUID == business || r.ToBusinessUID == business {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) ResolveBusinessRequest(ctx context.Context, id int64, to uuid.UUID, status domain.RequestStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.bizReqsByID[id]
	if !ok || r.ToBusinessUID != to || r.RequestStatus != domain.RequestStatusPending {
		return 0, nil
	}
	r.RequestStatus = status
	m.bizReqsByID[id] = r
	return 1, nil
}

func (m *MemoryStore) DeleteBusinessRequest(ctx context.Context, id int64, from uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.bizReqsByID[id]
	if !ok || r.FromBusinessUID != from || r.RequestStatus != domain.RequestStatusPending {
		return 0, nil
	}
	delete(m.bizReqsByID, id)
	return 1, nil
}

// EmployeeRequestRepository implementation

func (m *MemoryStore) CreateEmployeeRequest(ctx context.Context, r *domain.EmployeeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.empReqsByID {
		if req.Email == r.Email && req.BusinessID == r.BusinessID &&
			req.RequestStatus == domain.RequestStatusPending {
			return ErrDuplicateRequest
		}
	}
	r.RequestID = m.nextEmpReqID
	m.nextEmpReqID++
	r.RequestStatus = domain.RequestStatusPending
	r.CreatedAt = time.Now().UTC()
	m.empReqsByID[r.RequestID] = *r
	return nil
}

func (m *MemoryStore) GetEmployeeRequestByID(ctx context.Context, id int64) (*domain.EmployeeRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.empReqsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r
	return &cp, nil
}

func (m *MemoryStore) GetEmployeeRequestByEmail(ctx context.Context, email string) (*domain.EmployeeRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.empReqsByID {
		if r.Email == email {
			cp := r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListEmployeeRequestsForBusiness(ctx context.Context, businessID string) ([]domain.EmployeeRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.EmployeeRequest, 0)
	for _, r := range m.empReqsByID {
		if r.BusinessID == businessID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) ResolveEmployeeRequest(ctx context.Context, id int64, businessID string, status domain.RequestStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.empReqsByID[id]
	if !ok || r.BusinessID != businessID || r.RequestStatus != domain.RequestStatusPending {
		return 0, nil
	}
	r.RequestStatus = status
	m.empReqsByID[id] = r
	return 1, nil
}

func (m *MemoryStore) DeleteEmployeeRequest(ctx context.Context, id int64, status domain.RequestStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.empReqsByID[id]
	if !ok || r.RequestStatus != status {
		return 0, nil
	}
	delete(m.empReqsByID, id)
	return 1, nil
}

func (m *MemoryStore) RestoreEmployeeRequest(ctx context.Context, r *domain.EmployeeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.empReqsByID[r.RequestID]; exists {
		return ErrConflict
	}
	m.empReqsByID[r.RequestID] = *r
	return nil
}

func (m *MemoryStore) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, emp := range m.employeesByID {
		if emp.Email == e.Email {
			return ErrConflict
		}
	}
	e.EmployeeID = m.nextEmployeeID
	m.nextEmployeeID++
	if e.UserID == uuid.Nil {
		e.UserID = uuid.New()
	}
	e.CreatedAt = time.Now().UTC()
	m.employeesByID[e.EmployeeID] = *e
	return nil
}

func (m *MemoryStore) ListEmployeesByBusiness(ctx context.Context, worksAt uuid.UUID) ([]domain.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Employee, 0)
	for _, e := range m.employeesByID {
		if e.WorksAt == worksAt {
			out = append(out, e)
		}
	}
	return out, nil
}
