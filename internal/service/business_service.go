package service

import (
	"context"

	"github.com/google/uuid"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
)

// минимальная длина публичного кода для поиска, как в клиенте
const minSearchLen = 5

// BusinessService регистрация и поиск бизнесов по публичному коду
type BusinessService struct {
	repo repository.BusinessRepository
}

func NewBusinessService(repo repository.BusinessRepository) *BusinessService {
	return &BusinessService{repo: repo}
}

func (s *BusinessService) Create(ctx context.Context, b domain.Business) (*domain.Business, error) {
	if b.BusinessName == "" || b.BusinessID == "" || b.OwnerID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	cp := b
	if err := s.repo.CreateBusiness(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *BusinessService) GetByUID(ctx context.Context, uid uuid.UUID) (*domain.Business, error) {
	if uid == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return s.repo.GetBusinessByUID(ctx, uid)
}

// Search ищет по фрагменту публичного кода; короткий запрос даёт пустой результат
func (s *BusinessService) Search(ctx context.Context, code string) ([]domain.Business, error) {
	if len(code) < minSearchLen {
		return []domain.Business{}, nil
	}
	return s.repo.SearchBusinesses(ctx, code)
}
