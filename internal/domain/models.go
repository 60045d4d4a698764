package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business представляет торговую точку (владелец, контакты, публичный код)
type Business struct {
	BusinessUID   uuid.UUID `json:"business_uid" gorm:"primaryKey;type:char(36)"`
	BusinessID    string    `json:"business_id" gorm:"uniqueIndex;size:32;not null"`
	BusinessName  string    `json:"business_name" gorm:"size:100;not null"`
	OwnerName     string    `json:"owner_name" gorm:"size:100"`
	Contact       string    `json:"contact" gorm:"size:20"`
	BusinessEmail string    `json:"business_email" gorm:"size:255"`
	Address       string    `json:"address" gorm:"type:text"`
	Slogan        string    `json:"slogan" gorm:"size:255"`
	OwnerID       uuid.UUID `json:"owner_id" gorm:"index;type:char(36);not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Product товар продавца. QtyInCtn == nil — товар продаётся только поштучно
type Product struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	SellerUID   uuid.UUID       `json:"seller_uid" gorm:"index;type:char(36);not null"`
	ProductName string          `json:"product_name" gorm:"size:100;not null"`
	Rate        decimal.Decimal `json:"rate" gorm:"type:decimal(14,2);not null"`
	MRP         decimal.Decimal `json:"mrp" gorm:"type:decimal(14,2)"`
	CostPrice   decimal.Decimal `json:"cost_price" gorm:"type:decimal(14,2)"`
	QtyInCtn    *int64          `json:"qty_in_ctn"`
	ImageURL    string          `json:"image_url" gorm:"size:255"`
}

// OrderLine позиция заказа после нормализации количеств
type OrderLine struct {
	ID        int64           `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `json:"order_id" gorm:"index;not null"`
	ProductID int64           `json:"product_id" gorm:"not null"`
	QtyInPcs  int64           `json:"qty_in_pcs"`
	QtyInCtn  int64           `json:"qty_in_ctn"`
	Rate      decimal.Decimal `json:"rate" gorm:"type:decimal(14,2)"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(14,2)"`
}

// Order заголовок заказа. Создаётся вместе с позициями и далее неизменяем
type Order struct {
	OrderID   int64           `json:"order_id" gorm:"primaryKey;autoIncrement"`
	FromStore uuid.UUID       `json:"from_store" gorm:"index;type:char(36);not null"`
	ToStore   uuid.UUID       `json:"to_store" gorm:"index;type:char(36);not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	PlacedBy  uuid.UUID       `json:"placed_by" gorm:"type:char(36);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	Lines     []OrderLine     `json:"lines" gorm:"foreignKey:OrderID"`
}

// RequestStatus статус заявки (бизнес-связь или трудоустройство)
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// BusinessRelation установленная связь покупатель→продавец
type BusinessRelation struct {
	RelationID   int64     `json:"relation_id" gorm:"primaryKey;autoIncrement"`
	BusinessUID1 uuid.UUID `json:"business_uid_1" gorm:"column:business_uid_1;index:idx_relation_pair,unique;type:char(36);not null"`
	BusinessUID2 uuid.UUID `json:"business_uid_2" gorm:"column:business_uid_2;index:idx_relation_pair,unique;type:char(36);not null"`
	RelationType string    `json:"relation_type" gorm:"size:10"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BusinessRequest заявка на связь между двумя бизнесами
type BusinessRequest struct {
	RequestID       int64         `json:"request_id" gorm:"primaryKey;autoIncrement"`
	FromBusinessUID uuid.UUID     `json:"from_business_uid" gorm:"index;type:char(36);not null"`
	ToBusinessUID   uuid.UUID     `json:"to_business_uid" gorm:"index;type:char(36);not null"`
	RelationType    string        `json:"relation_type" gorm:"size:10"`
	RequestStatus   RequestStatus `json:"request_status" gorm:"size:10;not null;default:pending"`
	// non-null only while pending, so the unique index allows any number of
	// resolved rows per pair but a single outstanding one
	PendingPair *string   `json:"-" gorm:"->;uniqueIndex;type:varchar(80) generated always as (if(request_status = 'pending', concat(from_business_uid, ':', to_business_uid), null)) stored"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// EmployeeRequest заявка сотрудника на подключение к бизнесу по публичному коду
type EmployeeRequest struct {
	RequestID     int64         `json:"request_id" gorm:"primaryKey;autoIncrement"`
	Email         string        `json:"email" gorm:"index;size:255;not null"`
	FirstName     string        `json:"first_name" gorm:"size:100"`
	LastName      string        `json:"last_name" gorm:"size:100"`
	Phone         string        `json:"phone" gorm:"size:20"`
	BusinessID    string        `json:"business_id" gorm:"index;size:32;not null"`
	RequestStatus RequestStatus `json:"request_status" gorm:"size:10;not null;default:pending"`
	// same pending-only uniqueness as BusinessRequest.PendingPair
	PendingKey *string   `json:"-" gorm:"->;uniqueIndex;type:varchar(300) generated always as (if(request_status = 'pending', concat(email, ':', business_id), null)) stored"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Employee учётная запись сотрудника, создаётся однократно из одобренной заявки
type Employee struct {
	EmployeeID   int64     `json:"employee_id" gorm:"primaryKey;autoIncrement"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:char(36);not null"`
	EmployeeName string    `json:"employee_name" gorm:"size:200"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone        string    `json:"phone" gorm:"size:20"`
	WorksAt      uuid.UUID `json:"works_at" gorm:"index;type:char(36);not null"`
	PasswordHash []byte    `json:"-" gorm:"size:60"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}
