package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/address"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service handles order business operations. Order creation reserves stock
// and persists the order inside a single transaction scope, so a failed
// reservation of any line rolls back every decrement already made.
type Service struct {
	scope     inventory.TransactionScope
	ledger    *inventory.StockLedger
	orders    order.Repository
	carts     cart.Repository
	addresses address.Repository
	logger    *zap.Logger
}

// NewService creates a new order Service
func NewService(
	scope inventory.TransactionScope,
	ledger *inventory.StockLedger,
	orders order.Repository,
	carts cart.Repository,
	addresses address.Repository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scope:     scope,
		ledger:    ledger,
		orders:    orders,
		carts:     carts,
		addresses: addresses,
		logger:    logger,
	}
}

// Create places an order from an explicit item list. Every line is reserved
// against current stock and snapshotted at its effective price; the order is
// created pending.
func (s *Service) Create(ctx context.Context, principal identity.Principal, req CreateRequest) (*Response, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order must contain at least one item")
	}
	addr, err := s.resolveAddress(ctx, principal.UserID, req.AddressID)
	if err != nil {
		return nil, err
	}

	reservations := make([]inventory.Reservation, 0, len(req.Items))
	for _, item := range req.Items {
		reservations = append(reservations, inventory.Reservation{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	created, err := s.placeOrder(ctx, principal.UserID, req.AddressID, reservations, nil)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(created)
	resp.Address = toAddressView(addr)
	return &resp, nil
}

// Checkout places an order from the user's cart and clears the cart in the
// same transaction, so a failed order leaves the cart untouched.
func (s *Service) Checkout(ctx context.Context, principal identity.Principal, req CheckoutRequest) (*Response, error) {
	addr, err := s.resolveAddress(ctx, principal.UserID, req.AddressID)
	if err != nil {
		return nil, err
	}

	userCart, err := s.carts.FindByUser(ctx, principal.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Cart is empty")
		}
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cart is empty")
	}

	reservations := make([]inventory.Reservation, 0, len(userCart.Items))
	for _, item := range userCart.Items {
		reservations = append(reservations, inventory.Reservation{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	created, err := s.placeOrder(ctx, principal.UserID, req.AddressID, reservations, userCart)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(created)
	resp.Address = toAddressView(addr)
	return &resp, nil
}

// placeOrder reserves every line, snapshots products into a new pending
// order and persists it, all within one transaction. When clearCart is
// non-nil its items are deleted in the same transaction.
func (s *Service) placeOrder(
	ctx context.Context,
	userID, addressID uuid.UUID,
	reservations []inventory.Reservation,
	clearCart *cart.Cart,
) (*order.Order, error) {
	var created *order.Order

	err := s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
		products, err := s.ledger.ReserveAll(ctx, repos, reservations)
		if err != nil {
			return err
		}

		o, err := order.NewOrder(userID, addressID)
		if err != nil {
			return err
		}
		for _, r := range reservations {
			product := products[r.ProductID]
			if err := o.AddSnapshot(product.ID, product.Name, r.Quantity, product.EffectivePrice()); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, o); err != nil {
			return err
		}

		if clearCart != nil {
			clearCart.Clear()
			if err := repos.Carts().Save(ctx, clearCart); err != nil {
				return err
			}
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", created.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("items", created.ItemCount()),
		zap.String("total", created.TotalPrice.String()))

	return created, nil
}

// GetByID retrieves an order. Non-admins only see their own orders; a
// foreign order reads as absent, not as forbidden.
func (s *Service) GetByID(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*Response, error) {
	o, err := s.findVisible(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(o)
	resp.Address = s.loadAddressView(ctx, o.AddressID)
	return &resp, nil
}

// ListMine retrieves the caller's orders with pagination
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
	domainFilter, err := buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	orders, err := s.orders.FindByUser(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	responses := ToResponseList(orders)
	s.attachAddresses(ctx, responses)
	return responses, total, nil
}

// ListAll retrieves orders across all users. Admin only; the handler
// enforces the role.
func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]Response, int64, error) {
	domainFilter, err := buildFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	orders, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := ToResponseList(orders)
	s.attachAddresses(ctx, responses)
	return responses, total, nil
}

// ListForUser retrieves a given user's orders. Admin only.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
	return s.ListMine(ctx, userID, filter)
}

// UpdateStatus moves an order along the transition table. Non-admins may
// only cancel their own pending orders through this path; admins may apply
// any legal transition to any order. Neither path releases stock: the status
// flag changes, the reservation stands.
func (s *Service) UpdateStatus(ctx context.Context, principal identity.Principal, orderID uuid.UUID, req UpdateStatusRequest) (*Response, error) {
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	o, err := s.findVisible(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}

	if !principal.IsAdmin() && target != order.StatusCancelled {
		return nil, shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Only administrators can mark orders %s", target))
	}

	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order status changed",
		zap.String("order_id", o.ID.String()),
		zap.String("status", target.String()))

	resp := ToResponse(o)
	resp.Address = s.loadAddressView(ctx, o.AddressID)
	return &resp, nil
}

// Cancel cancels a pending order owned by the caller: every reserved line
// is released back to stock and the order with its items is deleted, both
// within one transaction.
func (s *Service) Cancel(ctx context.Context, principal identity.Principal, orderID uuid.UUID) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.IsOwnedBy(principal.UserID) {
		return shared.ErrNotFound
	}
	if !o.CanCancel() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel an order in status %s", o.Status))
	}

	releases := make([]inventory.Reservation, 0, len(o.Items))
	for _, item := range o.Items {
		releases = append(releases, inventory.Reservation{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	err = s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
		if err := s.ledger.ReleaseAll(ctx, repos, releases); err != nil {
			return err
		}
		return repos.Orders().Delete(ctx, o.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", principal.UserID.String()))

	return nil
}

func (s *Service) findVisible(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && !o.IsOwnedBy(principal.UserID) {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

// resolveAddress checks the shipping address exists and belongs to the user.
// A foreign address reads as absent.
func (s *Service) resolveAddress(ctx context.Context, userID, addressID uuid.UUID) (*address.Address, error) {
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !addr.IsOwnedBy(userID) {
		return nil, shared.ErrNotFound
	}
	return addr, nil
}

// loadAddressView resolves an order's shipping address for display. An
// unresolvable address degrades to the bare reference instead of failing
// the whole order read.
func (s *Service) loadAddressView(ctx context.Context, addressID uuid.UUID) *AddressView {
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		s.logger.Warn("order address unresolved",
			zap.String("address_id", addressID.String()),
			zap.Error(err))
		return nil
	}
	return toAddressView(addr)
}

// attachAddresses resolves shipping addresses across a page of orders,
// loading each distinct address once.
func (s *Service) attachAddresses(ctx context.Context, responses []Response) {
	views := make(map[uuid.UUID]*AddressView)
	for idx := range responses {
		view, ok := views[responses[idx].AddressID]
		if !ok {
			view = s.loadAddressView(ctx, responses[idx].AddressID)
			views[responses[idx].AddressID] = view
		}
		responses[idx].Address = view
	}
}

func buildFilter(filter ListFilter) (shared.Filter, error) {
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
	if filter.Status != "" {
		status, err := order.ParseStatus(filter.Status)
		if err != nil {
			return shared.Filter{}, err
		}
		domainFilter.Filters["status"] = status.String()
	}
	return domainFilter, nil
}
