package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/macrolog/macrolog/backend/internal/models"
	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/types"
	"gorm.io/gorm"
)

var _ IProductService = (*ProductService)(nil)

// ProductService manages the shared product catalog
type ProductService struct {
	db    *gorm.DB
	cache ReportCache
}

func NewProductService(db *gorm.DB, cache ReportCache) *ProductService {
	return &ProductService{db: db, cache: cacheOrNop(cache)}
}

// ListProducts returns products ordered by name, filtered by a
// case-insensitive substring of the name when query is not empty.
func (s *ProductService) ListProducts(ctx context.Context, query string) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(query))+"%")
	}

	products := []models.Product{}
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *types.ProductRequest) (*models.Product, error) {
	var product models.Product
	if err := applyProductRequest(&product, req, true); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UpdateProduct replaces every editable field. Values are taken as stored,
// already per unit, so a product read and written back is unchanged.
// Reports of all users are invalidated since any of them may reference the
// product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *types.ProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductRequest(product, req, false); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.invalidateReports(ctx)
	return product, nil
}

// DeleteProduct soft-deletes the product. Meal items that reference it are
// kept and show up as orphaned in views and reports.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *ProductService) invalidateReports(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Printf("Warning: failed to invalidate report cache: %v", err)
	}
}

// applyProductRequest validates req into p. With perUnitTotals the values
// are totals for Quantity units and get divided down to one unit.
func applyProductRequest(p *models.Product, req *types.ProductRequest, perUnitTotals bool) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ValidationError{Field: "name", Message: "is required"}
	}
	if !(req.ReferenceGrams > 0) || math.IsInf(req.ReferenceGrams, 0) {
		return nutrition.ErrInvalidProduct
	}
	m := req.Macros()
	if err := validateMacros(m); err != nil {
		return err
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		return ValidationError{Field: "quantity", Message: "must be at least 1"}
	}

	grams := req.ReferenceGrams
	if perUnitTotals {
		grams, m = perUnit(grams, m, req.Quantity)
	}
	if grams <= 0 {
		return nutrition.ErrInvalidProduct
	}

	p.Name = name
	p.ReferenceGrams = grams
	p.Macros = m
	p.Quantity = req.Quantity
	return nil
}

func validateMacros(m nutrition.Macros) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", m.Calories},
		{"protein", m.Protein},
		{"carbs", m.Carbs},
		{"fats", m.Fats},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return ValidationError{Field: f.name, Message: "must be a non-negative number"}
		}
	}
	return nil
}

// perUnit divides totals entered for several units down to a single unit.
// Grams and calories keep one decimal, the other macros two.
func perUnit(grams float64, m nutrition.Macros, quantity *int) (float64, nutrition.Macros) {
	if quantity == nil || *quantity <= 1 {
		return grams, m
	}
	q := float64(*quantity)
	return nutrition.Round(grams/q, 1), nutrition.Macros{
		Calories: nutrition.Round(m.Calories/q, 1),
		Protein:  nutrition.Round(m.Protein/q, 2),
		Carbs:    nutrition.Round(m.Carbs/q, 2),
		Fats:     nutrition.Round(m.Fats/q, 2),
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
