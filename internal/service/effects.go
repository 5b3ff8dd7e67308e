package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/srana86/frameX-sub004/internal/affiliate"
	"github.com/srana86/frameX-sub004/internal/async"
	"github.com/srana86/frameX-sub004/internal/cache"
	"github.com/srana86/frameX-sub004/internal/fraud"
	"github.com/srana86/frameX-sub004/internal/geo"
	"github.com/srana86/frameX-sub004/internal/metrics"
	"github.com/srana86/frameX-sub004/internal/model"
	"github.com/srana86/frameX-sub004/internal/notify"
	"github.com/srana86/frameX-sub004/internal/realtime"
	"github.com/srana86/frameX-sub004/internal/repository"
	"github.com/srana86/frameX-sub004/internal/track"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const effectTimeout = 15 * time.Second

// SideEffects fans out the post-commit work for a created order. Every
// effect is independent: a failure is counted and logged but never touches
// the order or the other effects. The optional integrations (Geo, Scorer,
// Email, Tracker, Cache) may be nil when not configured.
type SideEffects struct {
	Runner  *async.Runner
	Metrics *metrics.Metrics
	Hub     *realtime.Hub

	Geo     geo.Resolver
	Scorer  fraud.Scorer
	Email   notify.EmailDispatcher
	Tracker track.Tracker
	Cache   cache.Invalidator

	OrderRepo        repository.OrderRepository
	AffiliateRepo    repository.AffiliateRepository
	CommissionRepo   repository.CommissionRepository
	NotificationRepo repository.NotificationRepository
	SettingsRepo     repository.SettingsRepository

	// AdminEmail is the fallback recipient for admin order alerts when the
	// merchant has no admin_email setting.
	AdminEmail string

	Logger zerolog.Logger
}

// Run executes the fan-out for a freshly created order. The commission
// record is written on the request path so the money trail always exists by
// the time the response is sent; everything else runs in the background.
func (e *SideEffects) Run(ctx context.Context, order *model.Order, attribution *affiliate.Attribution, meta CreateMeta) {
	if attribution != nil {
		e.recordCommission(ctx, order, attribution)
	}

	e.emitOrderUpdate(order)

	if e.Geo != nil && meta.ClientIP != "" {
		ip := meta.ClientIP
		e.Runner.Go("geo_resolve", effectTimeout, func(ctx context.Context) error {
			return e.resolveGeo(ctx, order, ip)
		})
	}

	// Notification events reach the dashboard before their rows persist;
	// a failed write must not suppress what subscribers already need to see.
	if notifications := e.buildNotifications(ctx, order); len(notifications) > 0 {
		for _, n := range notifications {
			e.Hub.Emit(order.MerchantID, realtime.Event{Type: realtime.EventNotification, Payload: n})
		}
		e.Runner.Go("notifications", effectTimeout, func(ctx context.Context) error {
			if err := e.NotificationRepo.InsertBatch(ctx, notifications); err != nil {
				e.fail("notifications")
				return err
			}
			return nil
		})
	}

	if e.Email != nil {
		e.Runner.Go("emails", effectTimeout, func(ctx context.Context) error {
			e.sendEmails(ctx, order)
			return nil
		})
	}

	if e.Tracker != nil && order.PaymentMethod == model.PaymentMethodCOD {
		e.Runner.Go("purchase_tracking", effectTimeout, func(ctx context.Context) error {
			if err := e.Tracker.Purchase(ctx, order); err != nil {
				e.fail("purchase_tracking")
				return err
			}
			return nil
		})
	}

	e.invalidateCaches(order.MerchantID)

	if e.Scorer != nil && order.Customer.Phone != "" {
		e.Runner.Go("fraud_score", effectTimeout, func(ctx context.Context) error {
			return e.scoreFraud(ctx, order)
		})
	}
}

func (e *SideEffects) recordCommission(ctx context.Context, order *model.Order, attribution *affiliate.Attribution) {
	commission := &model.Commission{
		ID:          uuid.New(),
		MerchantID:  order.MerchantID,
		OrderID:     order.ID,
		AffiliateID: attribution.Affiliate.ID,
		Percent:     attribution.Percent,
		Amount:      attribution.Amount,
		Status:      model.CommissionStatusPending,
		CreatedAt:   order.CreatedAt,
	}

	if err := e.CommissionRepo.Insert(ctx, commission); err != nil {
		e.fail("commission_record")
		e.Logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Str("affiliate_id", attribution.Affiliate.ID.String()).
			Msg("failed to record commission")
		return
	}

	if err := e.AffiliateRepo.IncrementOrderCount(ctx, order.MerchantID, attribution.Affiliate.ID); err != nil {
		e.fail("commission_record")
		e.Logger.Error().Err(err).
			Str("affiliate_id", attribution.Affiliate.ID.String()).
			Msg("failed to increment affiliate order count")
	}
}

func (e *SideEffects) resolveGeo(ctx context.Context, order *model.Order, ip string) error {
	info, err := e.Geo.Resolve(ctx, ip)
	if err != nil {
		e.fail("geo_resolve")
		return err
	}

	if err := e.OrderRepo.SetGeo(ctx, order.MerchantID, order.ID, info); err != nil {
		e.fail("geo_resolve")
		return err
	}
	return nil
}

// buildNotifications resolves the merchant's dashboard users and builds one
// notification per user. Returns nil when none are configured.
func (e *SideEffects) buildNotifications(ctx context.Context, order *model.Order) []model.Notification {
	raw, err := e.SettingsRepo.Get(ctx, order.MerchantID, repository.SettingNotifyUsers)
	if err != nil {
		e.fail("notifications")
		e.Logger.Error().Err(err).Msg("failed to load notify users setting")
		return nil
	}

	var userIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) == 0 {
		return nil
	}

	return notify.NewOrderNotifications(order, userIDs, time.Now())
}

func (e *SideEffects) sendEmails(ctx context.Context, order *model.Order) {
	vars := map[string]string{
		"order_id":      order.CustomOrderID,
		"customer_name": order.Customer.Name,
		"total":         formatAmount(order.Total),
	}

	if order.Customer.Email != "" {
		if err := e.Email.Send(ctx, notify.EmailEventOrderConfirmation, order.Customer.Email, vars); err != nil {
			e.fail("email_customer")
			e.Logger.Error().Err(err).Str("order_id", order.CustomOrderID).Msg("failed to send confirmation email")
		}
	}

	to, err := e.SettingsRepo.Get(ctx, order.MerchantID, repository.SettingAdminEmail)
	if err != nil {
		e.Logger.Warn().Err(err).Msg("failed to load admin email setting")
	}
	if to == "" {
		to = e.AdminEmail
	}
	if to == "" {
		return
	}

	if err := e.Email.Send(ctx, notify.EmailEventAdminNewOrder, to, vars); err != nil {
		e.fail("email_admin")
		e.Logger.Error().Err(err).Str("order_id", order.CustomOrderID).Msg("failed to send admin email")
	}
}

func (e *SideEffects) scoreFraud(ctx context.Context, order *model.Order) error {
	annotation, err := e.Scorer.Score(ctx, order.Customer.Phone)
	if err != nil {
		e.fail("fraud_score")
		return err
	}

	if err := e.OrderRepo.SetFraudAnnotation(ctx, order.MerchantID, order.ID, annotation); err != nil {
		e.fail("fraud_score")
		return err
	}
	return nil
}

// emitOrderUpdate pushes the order to the merchant's dashboard channel.
func (e *SideEffects) emitOrderUpdate(order *model.Order) {
	e.Hub.Emit(order.MerchantID, realtime.Event{Type: realtime.EventOrderUpdate, Payload: order})
}

// invalidateCaches drops the merchant's order-related cache tags.
func (e *SideEffects) invalidateCaches(merchantID string) {
	if e.Cache == nil {
		return
	}
	tags := cache.Tags(merchantID, cache.TagOrders, cache.TagInventory, cache.TagStats)
	e.Runner.Go("cache_invalidate", effectTimeout, func(ctx context.Context) error {
		if err := e.Cache.Invalidate(ctx, tags...); err != nil {
			e.fail("cache_invalidate")
			return err
		}
		return nil
	})
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (e *SideEffects) fail(kind string) {
	e.Metrics.SideEffectFailures.WithLabelValues(kind).Inc()
}
