package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ViewInvalidator drops cached product projections after a catalog write so
// cart reads never serve a stale price or name for longer than one write.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, productID uuid.UUID)
}

// ProductService handles product catalog operations. It never touches the
// stock quantity: reservation and release own that column.
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	views      ViewInvalidator
	logger     *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	views ViewInvalidator,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:   products,
		categories: categories,
		views:      views,
		logger:     logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := s.buildProduct(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// BatchCreate creates several products in one write
func (s *ProductService) BatchCreate(ctx context.Context, req BatchCreateProductsRequest) ([]ProductResponse, error) {
	products := make([]*catalog.Product, 0, len(req.Products))
	for _, item := range req.Products {
		product, err := s.buildProduct(ctx, item)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := s.products.SaveBatch(ctx, products); err != nil {
		return nil, err
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products with search, category filter and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	var (
		products []catalog.Product
		err      error
	)
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
		products, err = s.products.FindByCategory(ctx, *filter.CategoryID, domainFilter)
	} else {
		products, err = s.products.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.products.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponseList(products), total, nil
}

// Update applies the provided fields to a product. Absent fields keep their
// stored value; stock is not updatable here at all.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.DiscountedPrice != nil {
		if err := product.SetDiscountedPrice(req.DiscountedPrice); err != nil {
			return nil, err
		}
	}
	if req.Image != nil {
		if err := product.SetImage(*req.Image); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ID)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product from the catalog. Existing order items keep
// their snapshots; cart lines pointing at it resolve to nothing at read
// time.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) buildProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	if req.DiscountedPrice != nil {
		if err := product.SetDiscountedPrice(req.DiscountedPrice); err != nil {
			return nil, err
		}
	}
	if req.Image != "" {
		if err := product.SetImage(req.Image); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	return product, nil
}

func (s *ProductService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.views != nil {
		s.views.Invalidate(ctx, id)
	}
}
