package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/josecarlos19/top-vendas-sub000/internal/apierror"
	"github.com/josecarlos19/top-vendas-sub000/internal/infra"
	"github.com/josecarlos19/top-vendas-sub000/internal/repository"
)

// BookletService renders the printable payment booklet for a sale.
type BookletService interface {
	// Generate returns the path of the rendered PDF on disk.
	Generate(ctx context.Context, saleID uuid.UUID) (string, error)
}

type bookletService struct {
	sales       repository.SaleRepository
	storagePath string
}

func NewBookletService(sales repository.SaleRepository, storagePath string) BookletService {
	return &bookletService{sales: sales, storagePath: storagePath}
}

func (s *bookletService) Generate(ctx context.Context, saleID uuid.UUID) (string, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apierror.NewNotFound("sale")
		}
		return "", apierror.Failed("generate_booklet", err)
	}
	path, err := infra.GenerateBookletPDF(sale, s.storagePath)
	if err != nil {
		return "", apierror.Failed("generate_booklet", err)
	}
	return path, nil
}
