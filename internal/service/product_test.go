package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/backend/internal/nutrition"
	"github.com/macrolog/macrolog/backend/internal/service"
	"github.com/macrolog/macrolog/backend/internal/testhelpers"
	"github.com/macrolog/macrolog/backend/internal/types"
)

func TestCreateProductNormalizesPerUnit(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	productSvc := service.NewProductService(db, nil)

	six := 6
	product, err := productSvc.CreateProduct(context.Background(), &types.ProductRequest{
		Name:           "Egg",
		ReferenceGrams: 300,
		Quantity:       &six,
		Calories:       429,
		Protein:        37.8,
		Carbs:          2.5,
		Fats:           28.8,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, product.ReferenceGrams)
	assert.Equal(t, nutrition.Macros{Calories: 71.5, Protein: 6.3, Carbs: 0.42, Fats: 4.8}, product.Macros)
	require.NotNil(t, product.Quantity)
	assert.Equal(t, 6, *product.Quantity)
}

func TestCreateProductKeepsSingleUnitValues(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	productSvc := service.NewProductService(db, nil)

	product, err := productSvc.CreateProduct(context.Background(), &types.ProductRequest{
		Name: " Chicken Breast ", ReferenceGrams: 100, Calories: 165, Protein: 31, Fats: 3.6,
	})
	require.NoError(t, err)

	assert.Equal(t, "Chicken Breast", product.Name)
	assert.Equal(t, 100.0, product.ReferenceGrams)
	assert.Equal(t, testhelpers.ChickenBreast, product.Macros)
}

func TestCreateProductValidation(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	productSvc := service.NewProductService(db, nil)
	ctx := context.Background()

	_, err := productSvc.CreateProduct(ctx, &types.ProductRequest{Name: "Air", ReferenceGrams: 0})
	assert.ErrorIs(t, err, nutrition.ErrInvalidProduct)

	_, err = productSvc.CreateProduct(ctx, &types.ProductRequest{Name: "Odd", ReferenceGrams: 100, Protein: -1})
	var verr service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "protein", verr.Field)

	_, err = productSvc.CreateProduct(ctx, &types.ProductRequest{Name: "   ", ReferenceGrams: 100})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestListProductsSearchAndOrder(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	productSvc := service.NewProductService(db, nil)
	ctx := context.Background()

	testhelpers.CreateProduct(t, db, "rice", 100, testhelpers.Rice)
	testhelpers.CreateProduct(t, db, "Chicken Breast", 100, testhelpers.ChickenBreast)
	testhelpers.CreateProduct(t, db, "Brown Rice", 100, testhelpers.Rice)

	all, err := productSvc.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Brown Rice", all[0].Name)
	assert.Equal(t, "Chicken Breast", all[1].Name)

	found, err := productSvc.ListProducts(ctx, "RICE")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Brown Rice", found[0].Name)
	assert.Equal(t, "rice", found[1].Name)

	none, err := productSvc.ListProducts(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateProduct(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	cache := testhelpers.NewMemoryReportCache()
	productSvc := service.NewProductService(db, cache)
	ctx := context.Background()
	p := testhelpers.CreateProduct(t, db, "Rice", 100, testhelpers.Rice)
	cache.Prime(t, 1, &service.MonthlyReport{Year: 2024, Month: 2})

	updated, err := productSvc.UpdateProduct(ctx, p.ID, &types.ProductRequest{
		Name: "Jasmine Rice", ReferenceGrams: 100, Calories: 129, Protein: 2.9, Carbs: 27.9, Fats: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jasmine Rice", updated.Name)
	assert.Equal(t, 129.0, updated.Calories)

	got, err := productSvc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jasmine Rice", got.Name)

	assert.Nil(t, cache.Cached(1, 2024, 2), "product edits must invalidate cached reports")

	_, err = productSvc.UpdateProduct(ctx, 999, &types.ProductRequest{Name: "x", ReferenceGrams: 1})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateProductDoesNotDivideAgain(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	productSvc := service.NewProductService(db, nil)
	ctx := context.Background()

	two := 2
	created, err := productSvc.CreateProduct(ctx, &types.ProductRequest{
		Name: "Tortilla", ReferenceGrams: 80, Quantity: &two,
		Calories: 290, Protein: 7.6, Carbs: 48, Fats: 7.2,
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, created.ReferenceGrams)

	updated, err := productSvc.UpdateProduct(ctx, created.ID, &types.ProductRequest{
		Name: created.Name, ReferenceGrams: created.ReferenceGrams, Quantity: created.Quantity,
		Calories: created.Calories, Protein: created.Protein, Carbs: created.Carbs, Fats: created.Fats,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ReferenceGrams, updated.ReferenceGrams)
	assert.Equal(t, created.Macros, updated.Macros)
	require.NotNil(t, updated.Quantity)
	assert.Equal(t, 2, *updated.Quantity)
}

func TestDeleteProductIsSoft(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	productSvc := service.NewProductService(db, nil)
	ctx := context.Background()
	p := testhelpers.CreateProduct(t, db, "Rice", 100, testhelpers.Rice)

	require.NoError(t, productSvc.DeleteProduct(ctx, p.ID))

	_, err := productSvc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var count int64
	require.NoError(t, db.Unscoped().Table("products").Where("id = ?", p.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, productSvc.DeleteProduct(ctx, p.ID), service.ErrNotFound)
}
