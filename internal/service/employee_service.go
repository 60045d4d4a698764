package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
)

// EmployeeService машина состояний заявок на трудоустройство:
// pending → approved|rejected, затем approved → consumed через однократное
// создание учётной записи, после чего строка заявки удаляется.
type EmployeeService struct {
	businesses repository.BusinessRepository
	requests   repository.EmployeeRequestRepository
}

func NewEmployeeService(businesses repository.BusinessRepository, requests repository.EmployeeRequestRepository) *EmployeeService {
	return &EmployeeService{businesses: businesses, requests: requests}
}

// ErrRequestNotApproved заявка не в статусе approved (или уже использована)
var ErrRequestNotApproved = errors.New("request not approved")

// SubmitRequestInput поля заявки кандидата
type SubmitRequestInput struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	BusinessID string `json:"business_id"`
}

// SubmitRequest кандидат отправляет заявку на бизнес по публичному коду
func (s *EmployeeService) SubmitRequest(ctx context.Context, in SubmitRequestInput) (*domain.EmployeeRequest, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.FirstName == "" || in.BusinessID == "" {
		return nil, ErrInvalidInput
	}
	// target business must exist before a request is stored
	if _, err := s.businesses.GetBusinessByPublicID(ctx, in.BusinessID); err != nil {
		return nil, err
	}
	r := domain.EmployeeRequest{
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		BusinessID: in.BusinessID,
	}
	if err := s.requests.CreateEmployeeRequest(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CheckRequest кандидат опрашивает свою заявку по email; статус и код бизнеса
// возвращаются как есть, чтобы было видно, чьё решение ожидается
func (s *EmployeeService) CheckRequest(ctx context.Context, email string) (*domain.EmployeeRequest, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrInvalidInput
	}
	return s.requests.GetEmployeeRequestByEmail(ctx, email)
}

// ResolveRequest бизнес-адресат одобряет или отклоняет заявку
func (s *EmployeeService) ResolveRequest(ctx context.Context, id int64, acting uuid.UUID, approve bool) (*domain.EmployeeRequest, error) {
	if id <= 0 || acting == uuid.Nil {
		return nil, ErrInvalidInput
	}
	b, err := s.businesses.GetBusinessByUID(ctx, acting)
	if err != nil {
		return nil, err
	}
	status := domain.RequestStatusRejected
	if approve {
		status = domain.RequestStatusApproved
	}
	affected, err := s.requests.ResolveEmployeeRequest(ctx, id, b.BusinessID, status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, repository.ErrConflict
	}
	return s.requests.GetEmployeeRequestByID(ctx, id)
}

// ConsumeRequest однократно превращает одобренную заявку в учётную запись.
// Строка заявки удаляется до создания записи (claim), поэтому второй consume
// не находит approved-строку и получает ErrRequestNotApproved.
func (s *EmployeeService) ConsumeRequest(ctx context.Context, email, password string) (*domain.Employee, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	req, err := s.requests.GetEmployeeRequestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotApproved
		}
		return nil, err
	}
	if req.RequestStatus != domain.RequestStatusApproved {
		return nil, ErrRequestNotApproved
	}

	b, err := s.businesses.GetBusinessByPublicID(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// claim: conditional delete loses the race for everyone but one caller
	affected, err := s.requests.DeleteEmployeeRequest(ctx, req.RequestID, domain.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrRequestNotApproved
	}

	e := domain.Employee{
		EmployeeName: strings.TrimSpace(req.FirstName + " " + req.LastName),
		Email:        req.Email,
		Phone:        req.Phone,
		WorksAt:      b.BusinessUID,
		PasswordHash: hash,
	}
	if err := s.requests.CreateEmployee(ctx, &e); err != nil {
		// компенсация: одобрение не должно пропасть, если запись не создалась
		if restoreErr := s.requests.RestoreEmployeeRequest(ctx, req); restoreErr != nil {
			return nil, fmt.Errorf("creating employee: %w (approved request %d not restored: %v)", err, req.RequestID, restoreErr)
		}
		return nil, err
	}
	return &e, nil
}

// ListRequests заявки, адресованные бизнесу
func (s *EmployeeService) ListRequests(ctx context.Context, acting uuid.UUID) ([]domain.EmployeeRequest, error) {
	if acting == uuid.Nil {
		return nil, ErrInvalidInput
	}
	b, err := s.businesses.GetBusinessByUID(ctx, acting)
	if err != nil {
		return nil, err
	}
	return s.requests.ListEmployeeRequestsForBusiness(ctx, b.BusinessID)
}

// ListEmployees сотрудники бизнеса
func (s *EmployeeService) ListEmployees(ctx context.Context, worksAt uuid.UUID) ([]domain.Employee, error) {
	if worksAt == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return s.requests.ListEmployeesByBusiness(ctx, worksAt)
}
