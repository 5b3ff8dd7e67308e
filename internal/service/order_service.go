package service

import (
	"context"
	"fmt"
	"time"

	"github.com/srana86/frameX-sub004/internal/affiliate"
	"github.com/srana86/frameX-sub004/internal/fraud"
	"github.com/srana86/frameX-sub004/internal/model"
	"github.com/srana86/frameX-sub004/internal/orderid"
	"github.com/srana86/frameX-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	inventoryRepo  repository.InventoryRepository
	commissionRepo repository.CommissionRepository
	affiliateRepo  repository.AffiliateRepository

	gate       *fraud.Gate
	attributor *affiliate.Attributor
	idGen      *orderid.Generator
	effects    *SideEffects

	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	commissionRepo repository.CommissionRepository,
	affiliateRepo repository.AffiliateRepository,
	gate *fraud.Gate,
	attributor *affiliate.Attributor,
	idGen *orderid.Generator,
	effects *SideEffects,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		inventoryRepo:  inventoryRepo,
		commissionRepo: commissionRepo,
		affiliateRepo:  affiliateRepo,
		gate:           gate,
		attributor:     attributor,
		idGen:          idGen,
		effects:        effects,
		logger:         logger.With().Str("service", "order").Logger(),
	}
}

// Create runs the order-ingestion pipeline. Only stock insufficiency and the
// fraud gate can reject a request; everything after the commit is best-effort
// enrichment that never fails the order.
func (s *orderService) Create(ctx context.Context, merchantID string, req *model.OrderRequest, meta CreateMeta) (*model.Order, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	// Fraud gate. A lookup failure is deliberately fail-open: order
	// placement is not held hostage to blocklist infrastructure.
	blocked, err := s.gate.Check(ctx, merchantID, req.Customer.Phone, req.Customer.Email)
	if err != nil {
		s.logger.Warn().Err(err).Msg("fraud gate unavailable, proceeding with order")
	} else if blocked != nil {
		s.effects.Metrics.OrdersBlocked.WithLabelValues(merchantID).Inc()
		return nil, model.ErrCustomerBlocked
	}

	// Affiliate attribution is best-effort and never fails the order.
	attribution := s.attributor.Resolve(ctx, merchantID, meta.AttributionCookie, req.Total)

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		MerchantID:    merchantID,
		CustomOrderID: s.idGen.Generate(ctx, merchantID),
		Status:        model.OrderStatusPending,
		Subtotal:      req.Subtotal,
		Discount:      req.Discount,
		Tax:           req.Tax,
		Shipping:      req.Shipping,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentStatusPending,
		Customer:      req.Customer,
		CouponCode:    req.CouponCode,
		Source:        req.Source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if attribution != nil {
		id := attribution.Affiliate.ID
		order.AffiliateID = &id
		order.AffiliateCode = &attribution.Code
		order.AffiliateCommission = &attribution.Amount
	}

	// The display id carries a random tail but uniqueness is only enforced
	// by the index, so retry once with a fresh id on collision.
	err = s.createTx(ctx, order, req.Items)
	if err != nil && repository.IsUniqueViolation(err) {
		order.CustomOrderID = s.idGen.Generate(ctx, merchantID)
		err = s.createTx(ctx, order, req.Items)
	}
	if err != nil {
		if _, ok := err.(*model.StockError); ok {
			s.effects.Metrics.StockRejections.WithLabelValues(merchantID).Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.effects.Metrics.OrdersCreated.WithLabelValues(merchantID, string(order.PaymentMethod)).Inc()
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("custom_order_id", order.CustomOrderID).
		Int("item_count", len(order.Items)).
		Float64("total", order.Total).
		Msg("order created")

	s.effects.Run(ctx, order, attribution, meta)

	return order, nil
}

// createTx reserves stock and persists the order atomically: product rows
// are locked, every line item is validated against current stock, and the
// decrements, audit rows, order and items all commit together. Any
// insufficiency rolls the whole transaction back.
func (s *orderService) createTx(ctx context.Context, order *model.Order, items []model.OrderItemRequest) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.LockForUpdate(ctx, tx, order.MerchantID, ids)
	if err != nil {
		return err
	}

	var details []string
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			details = append(details, fmt.Sprintf("Product not found: %s", item.ProductID))
			continue
		}
		if product.Stock < item.Quantity {
			details = append(details, fmt.Sprintf(
				"Insufficient stock for %s. Available: %d, Requested: %d",
				product.Name, product.Stock, item.Quantity,
			))
		}
	}
	if len(details) > 0 {
		err = &model.StockError{Details: details}
		return err
	}

	order.Items = make([]model.OrderItem, len(items))
	transactions := make([]model.InventoryTransaction, len(items))
	for i, item := range items {
		product := products[item.ProductID]

		newStock, ok, decErr := s.productRepo.DecrementStock(ctx, tx, order.MerchantID, item.ProductID, item.Quantity)
		if decErr != nil {
			err = decErr
			return err
		}
		if !ok {
			// Cannot happen while the row lock is held, but the guard keeps
			// the decrement safe regardless.
			err = &model.StockError{Details: []string{fmt.Sprintf(
				"Insufficient stock for %s. Available: %d, Requested: %d",
				product.Name, product.Stock, item.Quantity,
			)}}
			return err
		}

		order.Items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		}
		transactions[i] = model.InventoryTransaction{
			ID:            uuid.New(),
			MerchantID:    order.MerchantID,
			ProductID:     item.ProductID,
			OrderID:       order.ID,
			QuantityDelta: -item.Quantity,
			PreviousStock: newStock + item.Quantity,
			NewStock:      newStock,
			Reason:        "order",
			CreatedAt:     order.CreatedAt,
		}
	}

	if err = s.orderRepo.Insert(ctx, tx, order); err != nil {
		return err
	}
	if err = s.orderRepo.InsertItems(ctx, tx, order.Items); err != nil {
		return err
	}
	if err = s.inventoryRepo.InsertTransactions(ctx, tx, transactions); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return err
	}

	return nil
}

// List retrieves a filtered page of orders.
func (s *orderService) List(ctx context.Context, merchantID string, params model.ListOrdersParams) (*model.OrderListResponse, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	orders, total, err := s.orderRepo.List(ctx, merchantID, params)
	if err != nil {
		s.logger.Error().Err(err).Str("merchant_id", merchantID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := (total + params.Limit - 1) / params.Limit
	if orders == nil {
		orders = []model.Order{}
	}

	return &model.OrderListResponse{
		Orders: orders,
		Pagination: model.Pagination{
			Page:        params.Page,
			Limit:       params.Limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNextPage: params.Page < totalPages,
			HasPrevPage: params.Page > 1 && total > 0,
		},
	}, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, merchantID string, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, merchantID, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus transitions an order's status. Delivery settles the order's
// commission: the pending record flips to settled and the affiliate's
// pending balance is credited, exactly once.
func (s *orderService) UpdateStatus(ctx context.Context, merchantID string, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, model.ErrInvalidStatus
	}

	order, err := s.orderRepo.UpdateStatus(ctx, merchantID, id, status)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if status == model.OrderStatusDelivered {
		s.settleCommission(ctx, order)
	}

	s.effects.emitOrderUpdate(order)
	s.effects.invalidateCaches(order.MerchantID)

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(status)).
		Msg("order status updated")

	return order, nil
}

// settleCommission credits the affiliate for a delivered order. SettleByOrder
// only matches a pending record, so repeated delivered transitions credit at
// most once.
func (s *orderService) settleCommission(ctx context.Context, order *model.Order) {
	commission, err := s.commissionRepo.SettleByOrder(ctx, order.MerchantID, order.ID)
	if err != nil {
		s.effects.Metrics.SideEffectFailures.WithLabelValues("commission_settle").Inc()
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to settle commission")
		return
	}
	if commission == nil {
		return
	}

	if err := s.affiliateRepo.CreditPendingBalance(ctx, order.MerchantID, commission.AffiliateID, commission.Amount); err != nil {
		s.effects.Metrics.SideEffectFailures.WithLabelValues("commission_settle").Inc()
		s.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Str("affiliate_id", commission.AffiliateID.String()).
			Msg("failed to credit affiliate balance")
	}
}

// validateOrderRequest validates the order request. Every rejection is a
// typed DomainError so handlers map them by code, not message.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeMissingField, "order request is required")
	}

	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("item %d: product ID is required", i))
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	if req.Customer.Name == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "customer name is required")
	}
	if req.Customer.Phone == "" && req.Customer.Email == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "customer phone or email is required")
	}

	if req.PaymentMethod != model.PaymentMethodCOD && req.PaymentMethod != model.PaymentMethodOnline {
		return model.NewDomainError(model.ErrCodeInvalidPayment, fmt.Sprintf("invalid payment method: %s", req.PaymentMethod))
	}

	return nil
}
