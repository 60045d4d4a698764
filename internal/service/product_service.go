package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"dhandho/internal/domain"
	"dhandho/internal/repository"
)

// ProductService инкапсулирует бизнес-логику вокруг товаров продавца
type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

var ErrInvalidInput = errors.New("invalid input")

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ProductName == "" || p.SellerUID == uuid.Nil || p.Rate.IsNegative() {
		return nil, ErrInvalidInput
	}
	if p.QtyInCtn != nil && *p.QtyInCtn <= 0 {
		return nil, ErrInvalidInput
	}
	cp := p
	if err := s.repo.CreateProduct(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetProductByID(ctx, id)
}

func (s *ProductService) ListBySeller(ctx context.Context, seller uuid.UUID) ([]domain.Product, error) {
	if seller == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return s.repo.ListProductsBySeller(ctx, seller)
}

// Delete удаляет товар только в рамках бизнеса продавца
func (s *ProductService) Delete(ctx context.Context, id int64, seller uuid.UUID) error {
	if id <= 0 || seller == uuid.Nil {
		return ErrInvalidInput
	}
	return s.repo.DeleteProduct(ctx, id, seller)
}
