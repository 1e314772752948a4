package entity

import (
	"time"
)

type Product struct {
	ID          string    `json:"id" firestore:"id"`
	Name        string    `json:"name" firestore:"name"`
	Category    string    `json:"category" firestore:"category"`
	Price       float64   `json:"price" firestore:"price"`
	Description string    `json:"description" firestore:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty" firestore:"thumbnail,omitempty"`
	Images      []string  `json:"images,omitempty" firestore:"images,omitempty"`
	Seller      Profile   `json:"seller" firestore:"seller"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// Gallery is the list of images shown by the product carousel. A product
// without an image list falls back to its thumbnail.
func (p *Product) Gallery() []string {
	if p == nil {
		return nil
	}
	if len(p.Images) > 0 {
		return p.Images
	}
	if p.Thumbnail != "" {
		return []string{p.Thumbnail}
	}
	return nil
}

// IsSoldBy reports whether userID owns the product.
func (p *Product) IsSoldBy(userID string) bool {
	return p != nil && userID != "" && p.Seller.ID == userID
}

// LatestProductsTitle heads the grid of LatestProduct cards.
const LatestProductsTitle = "Recently Listed Offers"

// LatestProduct is the listing card shape of the latest products grid.
type LatestProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Images      []string `json:"image,omitempty"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Seller      Profile  `json:"seller"`
}

func (p *Product) Latest() LatestProduct {
	return LatestProduct{
		ID:          p.ID,
		Name:        p.Name,
		Thumbnail:   p.Thumbnail,
		Images:      p.Images,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		Seller:      p.Seller,
	}
}
