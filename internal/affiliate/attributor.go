package affiliate

import (
	"context"
	"math"
	"time"

	"github.com/srana86/frameX-sub004/internal/model"
	"github.com/srana86/frameX-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Attribution is a resolved referral credit for an order.
type Attribution struct {
	Affiliate *model.Affiliate
	Code      string
	Percent   float64
	Amount    float64
}

// Attributor resolves attribution cookies against affiliate records.
// Attribution is best-effort by policy: every failure path returns nil and
// is logged, never surfaced to the order flow.
type Attributor struct {
	repo   repository.AffiliateRepository
	rules  map[int]float64 // tier level -> commission percent
	logger zerolog.Logger
	now    func() time.Time
}

// NewAttributor creates a new attributor with the configured tier rules.
func NewAttributor(repo repository.AffiliateRepository, rules map[int]float64, logger zerolog.Logger) *Attributor {
	return &Attributor{
		repo:   repo,
		rules:  rules,
		logger: logger.With().Str("component", "affiliate-attributor").Logger(),
		now:    time.Now,
	}
}

// Resolve turns a raw attribution cookie into an Attribution for an order of
// the given total. Returns nil when the cookie is absent, malformed, expired,
// the affiliate is unknown or inactive, or the tier yields no commission.
func (a *Attributor) Resolve(ctx context.Context, merchantID, rawCookie string, orderTotal float64) *Attribution {
	if rawCookie == "" {
		return nil
	}

	payload, err := DecodeCookie(rawCookie)
	if err != nil {
		a.logger.Warn().Err(err).Str("merchant_id", merchantID).Msg("dropping malformed attribution cookie")
		return nil
	}

	if a.now().UnixMilli() > payload.Expiry {
		a.logger.Debug().
			Str("promo_code", payload.PromoCode).
			Int64("expiry", payload.Expiry).
			Msg("attribution cookie expired")
		return nil
	}

	aff := a.lookup(ctx, merchantID, payload)
	if aff == nil {
		return nil
	}

	if aff.Status != model.AffiliateStatusActive {
		a.logger.Debug().
			Str("affiliate_id", aff.ID.String()).
			Str("status", string(aff.Status)).
			Msg("affiliate not active, dropping attribution")
		return nil
	}

	// Commission follows the affiliate's current tier, not whatever tier the
	// cookie was written under.
	percent := a.rules[aff.TierLevel]
	if percent <= 0 {
		a.logger.Debug().
			Str("affiliate_id", aff.ID.String()).
			Int("tier_level", aff.TierLevel).
			Msg("tier yields no commission, dropping attribution")
		return nil
	}

	amount := math.Round(orderTotal*percent) / 100

	a.logger.Info().
		Str("affiliate_id", aff.ID.String()).
		Str("promo_code", aff.PromoCode).
		Float64("percent", percent).
		Float64("amount", amount).
		Msg("order attributed to affiliate")

	return &Attribution{
		Affiliate: aff,
		Code:      aff.PromoCode,
		Percent:   percent,
		Amount:    amount,
	}
}

// Track resolves a promo code for a visitor landing through a referral
// link. Returns nil when the code is unknown or the affiliate is not active.
func (a *Attributor) Track(ctx context.Context, merchantID, promoCode string) (*model.Affiliate, error) {
	aff, err := a.repo.GetByPromoCode(ctx, merchantID, promoCode)
	if err != nil {
		return nil, err
	}
	if aff == nil || aff.Status != model.AffiliateStatusActive {
		return nil, nil
	}
	return aff, nil
}

// lookup resolves the affiliate by id first, falling back to promo code.
func (a *Attributor) lookup(ctx context.Context, merchantID string, payload *CookiePayload) *model.Affiliate {
	if payload.AffiliateID != "" {
		id, err := uuid.Parse(payload.AffiliateID)
		if err == nil {
			aff, err := a.repo.GetByID(ctx, merchantID, id)
			if err != nil {
				a.logger.Warn().Err(err).Str("affiliate_id", payload.AffiliateID).Msg("affiliate lookup failed")
			} else if aff != nil {
				return aff
			}
		}
	}

	if payload.PromoCode == "" {
		return nil
	}

	aff, err := a.repo.GetByPromoCode(ctx, merchantID, payload.PromoCode)
	if err != nil {
		a.logger.Warn().Err(err).Str("promo_code", payload.PromoCode).Msg("affiliate lookup by promo code failed")
		return nil
	}
	if aff == nil {
		a.logger.Debug().Str("promo_code", payload.PromoCode).Msg("no affiliate for promo code")
	}
	return aff
}
