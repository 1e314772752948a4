package main

import (
	"context"

	"marketplace/internal/domain/entity"
	domainrepo "marketplace/internal/domain/repository"
	"marketplace/pkg/logger"
)

var demoSellers = []entity.Profile{
	{ID: "seller-1", Name: "Minh Anh", Avatar: "https://picsum.photos/seed/seller-1/96"},
	{ID: "seller-2", Name: "Quang Huy", Avatar: "https://picsum.photos/seed/seller-2/96"},
}

var demoProducts = []entity.Product{
	{
		ID:          "demo-bike",
		Name:        "Xe đạp",
		Category:    "Sports",
		Price:       150000,
		Description: "City bike, barely used.",
		Thumbnail:   "https://picsum.photos/seed/bike/320",
		Images:      []string{"https://picsum.photos/seed/bike/1024", "https://picsum.photos/seed/bike-2/1024"},
		Seller:      demoSellers[0],
	},
	{
		ID:          "demo-lamp",
		Name:        "Desk lamp",
		Category:    "Home",
		Price:       89000,
		Description: "Warm white LED lamp.",
		Thumbnail:   "https://picsum.photos/seed/lamp/320",
		Images:      []string{"https://picsum.photos/seed/lamp/1024"},
		Seller:      demoSellers[1],
	},
}

// seedDemo fills an empty store with a couple of listings for local runs.
func seedDemo(ctx context.Context, products domainrepo.ProductRepository) error {
	existing, err := products.ListLatest(ctx, 1, 0)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for i := range demoProducts {
		p := demoProducts[i]
		if err := products.Create(ctx, &p); err != nil {
			return err
		}
	}
	logger.Info("Seeded %d demo products", len(demoProducts))
	return nil
}
