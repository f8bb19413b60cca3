package address

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service handles shipping address operations. Every operation is scoped to
// the owning user; a foreign address reads as absent.
type Service struct {
	addresses address.Repository
	logger    *zap.Logger
}

// NewService creates a new address Service
func NewService(addresses address.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		addresses: addresses,
		logger:    logger,
	}
}

// Create stores a new shipping address for the user
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Response, error) {
	addr, err := address.NewAddress(userID, req.Name, req.Street, req.City, req.State, req.Country, req.Zip, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.addresses.Save(ctx, addr); err != nil {
		return nil, err
	}

	resp := ToResponse(addr)
	return &resp, nil
}

// List returns the user's addresses
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Response, error) {
	addrs, err := s.addresses.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToResponseList(addrs), nil
}

// GetByID returns one of the user's addresses
func (s *Service) GetByID(ctx context.Context, userID, addressID uuid.UUID) (*Response, error) {
	addr, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(addr)
	return &resp, nil
}

// Update replaces the fields of one of the user's addresses
func (s *Service) Update(ctx context.Context, userID, addressID uuid.UUID, req CreateRequest) (*Response, error) {
	addr, err := s.findOwned(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if err := addr.Update(req.Name, req.Street, req.City, req.State, req.Country, req.Zip, req.Phone); err != nil {
		return nil, err
	}
	if err := s.addresses.Save(ctx, addr); err != nil {
		return nil, err
	}

	resp := ToResponse(addr)
	return &resp, nil
}

// Delete removes one of the user's addresses. Orders keep the reference;
// they resolve address detail only while it exists.
func (s *Service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.findOwned(ctx, userID, addressID); err != nil {
		return err
	}
	return s.addresses.Delete(ctx, addressID)
}

func (s *Service) findOwned(ctx context.Context, userID, addressID uuid.UUID) (*address.Address, error) {
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !addr.IsOwnedBy(userID) {
		return nil, shared.ErrNotFound
	}
	return addr, nil
}
