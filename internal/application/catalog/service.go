package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/catalog"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Service handles catalog management operations
type Service struct {
	productRepo catalog.ProductRepository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewService creates a new catalog Service. The event publisher may be nil.
func NewService(productRepo catalog.ProductRepository, events shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		productRepo: productRepo,
		events:      events,
		logger:      logger,
	}
}

// List returns active products matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Get returns one product by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Create adds a new product to the catalog. SKUs are unique; the check
// here gives a friendly error, the unique index is the real guarantee.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	sku := strings.ToUpper(req.SKU)
	existing, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}

	p, err := catalog.NewProduct(req.Name, sku, valueobject.NewMoneyUSD(req.Price))
	if err != nil {
		return nil, err
	}
	p.Description = req.Description
	p.StockQuantity = req.StockQuantity
	p.LowStockThreshold = req.LowStockThreshold
	if req.TrackInventory != nil {
		p.TrackInventory = *req.TrackInventory
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.events, p)

	s.logger.Info("Product created",
		zap.String("product_id", p.ID.String()),
		zap.String("sku", p.SKU),
	)

	resp := ToProductResponse(p)
	return &resp, nil
}

// Update changes a product's details, price, and availability
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := p.UpdatePrice(valueobject.NewMoneyUSD(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
		p.UpdatedAt = time.Now()
	}
	if req.IsActive != nil {
		if *req.IsActive {
			p.Activate()
		} else {
			p.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.events, p)

	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete removes a product from the catalog
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}
