package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
)

// тип связи покупатель→продавец, единственный на сегодня
const relationTypeCustomerSeller = "1-2"

// RelationService машина состояний заявок на связь между бизнесами:
// pending → approved|rejected, переход делает только получатель.
// Материализация связи — отдельный шаг после approve, чтобы переход
// и создание связи можно было повторять независимо.
type RelationService struct {
	requests  repository.BusinessRequestRepository
	relations repository.RelationRepository
}

func NewRelationService(requests repository.BusinessRequestRepository, relations repository.RelationRepository) *RelationService {
	return &RelationService{requests: requests, relations: relations}
}

// ErrSelfRequest заявка самому себе
var ErrSelfRequest = errors.New("cannot request a relation with yourself")

// SendRequest создаёт pending-заявку от бизнеса-покупателя
func (s *RelationService) SendRequest(ctx context.Context, from, to uuid.UUID) (*domain.BusinessRequest, error) {
	if from == uuid.Nil || to == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if from == to {
		return nil, ErrSelfRequest
	}
	r := domain.BusinessRequest{
		FromBusinessUID: from,
		ToBusinessUID:   to,
		RelationType:    relationTypeCustomerSeller,
	}
	if err := s.requests.CreateBusinessRequest(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ResolveRequest переводит заявку из pending. Разрешено только получателю;
// если статус уже не pending, второй переход получает ErrConflict.
func (s *RelationService) ResolveRequest(ctx context.Context, id int64, acting uuid.UUID, approve bool) (*domain.BusinessRequest, error) {
	if id <= 0 || acting == uuid.Nil {
		return nil, ErrInvalidInput
	}
	status := domain.RequestStatusRejected
	if approve {
		status = domain.RequestStatusApproved
	}
	affected, err := s.requests.ResolveBusinessRequest(ctx, id, acting, status)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// someone already acted on this request, or the caller is not the recipient
		return nil, repository.ErrConflict
	}
	return s.requests.GetBusinessRequestByID(ctx, id)
}

// EstablishRelation терминальный эффект одобренной заявки. Идемпотентна:
// существующая пара не ошибка, вызов можно повторять после сбоя.
func (s *RelationService) EstablishRelation(ctx context.Context, customer, seller uuid.UUID) (*domain.BusinessRelation, error) {
	if customer == uuid.Nil || seller == uuid.Nil || customer == seller {
		return nil, ErrInvalidInput
	}
	r := domain.BusinessRelation{
		BusinessUID1: customer,
		BusinessUID2: seller,
		RelationType: relationTypeCustomerSeller,
	}
	if err := s.relations.CreateRelation(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// WithdrawRequest отзыв собственной заявки, только пока она pending
func (s *RelationService) WithdrawRequest(ctx context.Context, id int64, acting uuid.UUID) error {
	if id <= 0 || acting == uuid.Nil {
		return ErrInvalidInput
	}
	affected, err := s.requests.DeleteBusinessRequest(ctx, id, acting)
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrConflict
	}
	return nil
}

// IsConnected открыт ли продавец для заказов этого покупателя
func (s *RelationService) IsConnected(ctx context.Context, customer, seller uuid.UUID) (bool, error) {
	return s.relations.RelationExists(ctx, customer, seller)
}

// ListConnections все установленные связи бизнеса, в обеих ролях
func (s *RelationService) ListConnections(ctx context.Context, business uuid.UUID) ([]domain.BusinessRelation, error) {
	if business == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return s.relations.ListRelationsForBusiness(ctx, business)
}

// ListRequests заявки бизнеса, разложенные на отправленные и полученные
func (s *RelationService) ListRequests(ctx context.Context, business uuid.UUID) (sent, received []domain.BusinessRequest, err error) {
	if business == uuid.Nil {
		return nil, nil, ErrInvalidInput
	}
	all, err := s.requests.ListBusinessRequestsForBusiness(ctx, business)
	if err != nil {
		return nil, nil, err
	}
	sent = make([]domain.BusinessRequest, 0)
	received = make([]domain.BusinessRequest, 0)
	for _, r := range all {
		if r.FromBusinessUID == business {
			sent = append(sent, r)
		} else {
			received = append(received, r)
		}
	}
	return sent, received, nil
}
