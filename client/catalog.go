package client

import (
	"context"

	"github.com/hazirlageldim/pickup-app/models"
)

// ProductForm is the editable product.
type ProductForm struct {
	Name        string  `validate:"required"`
	Description string  `validate:"max=500"`
	Price       float64 `validate:"required,gt=0"`
}

// Catalog manages one business's products.
type Catalog struct {
	gw         Gateway
	businessID string
}

func NewCatalog(gw Gateway, businessID string) *Catalog {
	return &Catalog{gw: gw, businessID: businessID}
}

// List returns every product of the business, alphabetical.
func (cat *Catalog) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	filters := Filters{"business_id": Eq(cat.businessID)}
	err := cat.gw.ReadFiltered(ctx, "products", filters, ReadOpts{Order: "name.asc"}, &products)
	return products, err
}

// Available returns the customer-facing menu: available products only.
func (cat *Catalog) Available(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	filters := Filters{
		"business_id":  Eq(cat.businessID),
		"is_available": Eq("true"),
	}
	err := cat.gw.ReadFiltered(ctx, "products", filters, ReadOpts{Order: "name.asc"}, &products)
	return products, err
}

func (cat *Catalog) Create(ctx context.Context, form ProductForm) (models.Product, error) {
	if err := validate.Struct(form); err != nil {
		return models.Product{}, err
	}

	row := map[string]interface{}{
		"business_id": cat.businessID,
		"name":        form.Name,
		"description": form.Description,
		"price":       form.Price,
	}
	var product models.Product
	if err := cat.gw.Insert(ctx, "products", row, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (cat *Catalog) Update(ctx context.Context, productID string, form ProductForm) (models.Product, error) {
	if err := validate.Struct(form); err != nil {
		return models.Product{}, err
	}

	patch := map[string]interface{}{
		"name":        form.Name,
		"description": form.Description,
		"price":       form.Price,
	}
	var product models.Product
	if err := cat.gw.Update(ctx, "products", productID, patch, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// ToggleAvailability flips the sold-out switch.
func (cat *Catalog) ToggleAvailability(ctx context.Context, product models.Product) (models.Product, error) {
	patch := map[string]interface{}{"is_available": !product.IsAvailable}
	var updated models.Product
	if err := cat.gw.Update(ctx, "products", product.ID, patch, &updated); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// DeleteIntent defers the destructive step to a confirmation dialog.
type DeleteIntent struct {
	cat       *Catalog
	ProductID string
	Name      string
}

func (cat *Catalog) BeginDelete(product models.Product) *DeleteIntent {
	return &DeleteIntent{cat: cat, ProductID: product.ID, Name: product.Name}
}

func (di *DeleteIntent) Confirm(ctx context.Context) error {
	return di.cat.gw.Delete(ctx, "products", di.ProductID)
}

func (di *DeleteIntent) Abort() {}
