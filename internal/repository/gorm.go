package repository

import (
	"context"
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"dhandho/internal/domain"
)

// GormStore продакшен-хранилище поверх MySQL. Условные переходы статусов
// выполняются одним guarded UPDATE с проверкой числа затронутых строк,
// поэтому гонка двух клиентов разрешается на стороне базы.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Ensure interfaces
var (
	_ BusinessRepository        = (*GormStore)(nil)
	_ ProductRepository         = (*GormStore)(nil)
	_ OrderRepository           = (*GormStore)(nil)
	_ RelationRepository        = (*GormStore)(nil)
	_ BusinessRequestRepository = (*GormStore)(nil)
	_ EmployeeRequestRepository = (*GormStore)(nil)
)

// Migrate создаёт таблицы ядра
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Business{},
		&domain.Product{},
		&domain.Order{},
		&domain.OrderLine{},
		&domain.BusinessRelation{},
		&domain.BusinessRequest{},
		&domain.EmployeeRequest{},
		&domain.Employee{},
	)
}

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// BusinessRepository implementation

func (s *GormStore) CreateBusiness(ctx context.Context, b *domain.Business) error {
	if b.BusinessUID == uuid.Nil {
		b.BusinessUID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormStore) GetBusinessByUID(ctx context.Context, uid uuid.UUID) (*domain.Business, error) {
	var b domain.Business
	if err := s.db.WithContext(ctx).First(&b, "business_uid = ?", uid).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (s *GormStore) GetBusinessByPublicID(ctx context.Context, code string) (*domain.Business, error) {
	var b domain.Business
	if err := s.db.WithContext(ctx).First(&b, "business_id = ?", code).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (s *GormStore) SearchBusinesses(ctx context.Context, codeSubstring string) ([]domain.Business, error) {
	var out []domain.Business
	err := s.db.WithContext(ctx).
		Where("business_id LIKE ?", "%"+codeSubstring+"%").
		Limit(10).
		Find(&out).Error
	return out, err
}

// ProductRepository implementation

func (s *GormStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (s *GormStore) ListProductsBySeller(ctx context.Context, seller uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	err := s.db.WithContext(ctx).Where("seller_uid = ?", seller).Find(&out).Error
	return out, err
}

func (s *GormStore) DeleteProduct(ctx context.Context, id int64, seller uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND seller_uid = ?", id, seller).
		Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OrderRepository implementation.
// Заголовок и позиции пишутся отдельными вызовами намеренно: контракт
// координатора — компенсация, а не мультистрочная транзакция.

func (s *GormStore) CreateOrderHeader(ctx context.Context, o *domain.Order) (int64, error) {
	header := *o
	header.Lines = nil
	if err := s.db.WithContext(ctx).Create(&header).Error; err != nil {
		return 0, err
	}
	o.OrderID = header.OrderID
	o.CreatedAt = header.CreatedAt
	return header.OrderID, nil
}

func (s *GormStore) CreateOrderLines(ctx context.Context, orderID int64, lines []domain.OrderLine) error {
	stored := make([]domain.OrderLine, len(lines))
	copy(stored, lines)
	for i := range stored {
		stored[i].OrderID = orderID
	}
	return s.db.WithContext(ctx).Create(&stored).Error
}

func (s *GormStore) DeleteOrderHeader(ctx context.Context, orderID int64) error {
	// idempotent: zero affected rows is fine
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&domain.OrderLine{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&domain.Order{}).Error
}

func (s *GormStore) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := s.db.WithContext(ctx).Preload("Lines").First(&o, "order_id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &o, nil
}

func (s *GormStore) ListOrdersByStore(ctx context.Context, store uuid.UUID) ([]domain.Order, error) {
	var out []domain.Order
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Where("from_store = ? OR to_store = ?", store, store).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// RelationRepository implementation

func (s *GormStore) CreateRelation(ctx context.Context, r *domain.BusinessRelation) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if isDuplicateKeyErr(err) {
			// pair already established, fetch it so the caller sees the row
			return s.db.WithContext(ctx).
				First(r, "business_uid_1 = ? AND business_uid_2 = ?", r.BusinessUID1, r.BusinessUID2).Error
		}
		return err
	}
	return nil
}

func (s *GormStore) RelationExists(ctx context.Context, customer, seller uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.BusinessRelation{}).
		Where("business_uid_1 = ? AND business_uid_2 = ?", customer, seller).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) ListRelationsForBusiness(ctx context.Context, business uuid.UUID) ([]domain.BusinessRelation, error) {
	var out []domain.BusinessRelation
	err := s.db.WithContext(ctx).
		Where("business_uid_1 = ? OR business_uid_2 = ?", business, business).
		Find(&out).Error
	return out, err
}

// BusinessRequestRepository implementation

func (s *GormStore) CreateBusinessRequest(ctx context.Context, r *domain.BusinessRequest) error {
	// uniqueness of the outstanding pending pair is owned by the generated
	// pending_pair column, so concurrent senders race on the index, not a count
	r.RequestStatus = domain.RequestStatusPending
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (s *GormStore) GetBusinessRequestByID(ctx context.Context, id int64) (*domain.BusinessRequest, error) {
	var r domain.BusinessRequest
	if err := s.db.WithContext(ctx).First(&r, "request_id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

func (s *GormStore) ListBusinessRequestsForBusiness(ctx context.Context, business uuid.UUID) ([]domain.BusinessRequest, error) {
	var out []domain.BusinessRequest
	err := s.db.WithContext(ctx).
		Where("from_business_uid = ? OR to_business_uid = ?", business, business).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) ResolveBusinessRequest(ctx context.Context, id int64, to uuid.UUID, status domain.RequestStatus) (int64, error) {
	res := s.db.WithContext(ctx).Model(&domain.BusinessRequest{}).
		Where("request_id = ? AND to_business_uid = ? AND request_status = ?",
			id, to, domain.RequestStatusPending).
		Update("request_status", status)
	return res.RowsAffected, res.Error
}

func (s *GormStore) DeleteBusinessRequest(ctx context.Context, id int64, from uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("request_id = ? AND from_business_uid = ? AND request_status = ?",
			id, from, domain.RequestStatusPending).
		Delete(&domain.BusinessRequest{})
	return res.RowsAffected, res.Error
}

// EmployeeRequestRepository implementation

func (s *GormStore) CreateEmployeeRequest(ctx context.Context, r *domain.EmployeeRequest) error {
	r.RequestStatus = domain.RequestStatusPending
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return ErrDuplicateRequest
		}
		return err
	}
	return nil
}

func (s *GormStore) GetEmployeeRequestByID(ctx context.Context, id int64) (*domain.EmployeeRequest, error) {
	var r domain.EmployeeRequest
	if err := s.db.WithContext(ctx).First(&r, "request_id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

func (s *GormStore) GetEmployeeRequestByEmail(ctx context.Context, email string) (*domain.EmployeeRequest, error) {
	var r domain.EmployeeRequest
	if err := s.db.WithContext(ctx).First(&r, "email = ?", email).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

func (s *GormStore) ListEmployeeRequestsForBusiness(ctx context.Context, businessID string) ([]domain.EmployeeRequest, error) {
	var out []domain.EmployeeRequest
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (s *GormStore) ResolveEmployeeRequest(ctx context.Context, id int64, businessID string, status domain.RequestStatus) (int64, error) {
	res := s.db.WithContext(ctx).Model(&domain.EmployeeRequest{}).
		Where("request_id = ? AND business_id = ? AND request_status = ?",
			id, businessID, domain.RequestStatusPending).
		Update("request_status", status)
	return res.RowsAffected, res.Error
}

func (s *GormStore) DeleteEmployeeRequest(ctx context.Context, id int64, status domain.RequestStatus) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("request_id = ? AND request_status = ?", id, status).
		Delete(&domain.EmployeeRequest{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) RestoreEmployeeRequest(ctx context.Context, r *domain.EmployeeRequest) error {
	// re-insert with the original primary key and status
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormStore) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	if e.UserID == uuid.Nil {
		e.UserID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormStore) ListEmployeesByBusiness(ctx context.Context, worksAt uuid.UUID) ([]domain.Employee, error) {
	var out []domain.Employee
	err := s.db.WithContext(ctx).Where("works_at = ?", worksAt).Find(&out).Error
	return out, err
}
