package usecase

import (
	"context"

	"marketplace/internal/domain/entity"
	"marketplace/internal/domain/repository"
	"marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

const ProductDeletedMessage = "Product has been removed successfully."

type ProductUseCase struct {
	productRepo repository.ProductRepository
}

func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
	}
}

func (uc *ProductUseCase) GetProductDetail(ctx context.Context, id string) (*entity.Product, error) {
	if id == "" {
		return nil, errors.BadRequest("Invalid product id", nil)
	}
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) ListLatest(ctx context.Context, limit, offset int) ([]entity.LatestProduct, error) {
	products, err := uc.productRepo.ListLatest(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	latest := make([]entity.LatestProduct, 0, len(products))
	for _, p := range products {
		latest = append(latest, p.Latest())
	}
	return latest, nil
}

// DeleteProduct removes a product owned by sellerID and returns the message
// shown to the seller.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id string, sellerID string) (string, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if !product.IsSoldBy(sellerID) {
		logger.Warn("DeleteProduct Error: User %s attempted to delete product %s owned by %s", sellerID, id, product.Seller.ID)
		return "", errors.Forbidden("You don't have permission to delete this product", nil)
	}

	if err := uc.productRepo.Delete(ctx, id); err != nil {
		logger.Error("DeleteProduct Error: Failed to delete product %s: %v", id, err)
		return "", err
	}

	logger.Info("DeleteProduct: Product %s removed by %s", id, sellerID)
	return ProductDeletedMessage, nil
}
