// Package orderid derives human-readable, brand-prefixed order display ids.
package orderid

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/srana86/frameX-sub004/internal/repository"

	"github.com/rs/zerolog"
)

// Generator produces display ids like "BRD-1234567". The suffix mixes
// second-resolution time with random digits; the orders table holds a unique
// index on the display id and callers retry once on collision.
type Generator struct {
	settings repository.SettingsRepository
	logger   zerolog.Logger
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a new display-id generator.
func NewGenerator(settings repository.SettingsRepository, logger zerolog.Logger) *Generator {
	return &Generator{
		settings: settings,
		logger:   logger.With().Str("component", "orderid").Logger(),
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate returns a new display id for the merchant. Brand resolution
// degrades gracefully: brand config, else store-name initials, else no
// prefix at all.
func (g *Generator) Generate(ctx context.Context, merchantID string) string {
	prefix := g.resolvePrefix(ctx, merchantID)
	suffix := g.suffix()

	if prefix == "" {
		return suffix
	}
	return prefix + "-" + suffix
}

// resolvePrefix looks up the merchant's brand prefix. Lookup failures are
// logged and produce an unprefixed id rather than failing order creation.
func (g *Generator) resolvePrefix(ctx context.Context, merchantID string) string {
	brand, err := g.settings.Get(ctx, merchantID, repository.SettingBrand)
	if err != nil {
		g.logger.Warn().Err(err).Str("merchant_id", merchantID).Msg("brand lookup failed")
		return ""
	}
	if brand != "" {
		return sanitizePrefix(brand)
	}

	storeName, err := g.settings.Get(ctx, merchantID, repository.SettingStoreName)
	if err != nil {
		g.logger.Warn().Err(err).Str("merchant_id", merchantID).Msg("store-name lookup failed")
		return ""
	}
	return initials(storeName)
}

// suffix yields 7 digits: 4 from the current time, 3 random.
func (g *Generator) suffix() string {
	g.mu.Lock()
	n := g.rnd.Intn(1000)
	g.mu.Unlock()

	return fmt.Sprintf("%04d%03d", g.now().Unix()%10000, n)
}

// sanitizePrefix uppercases a brand code and keeps it to at most 5 letters.
func sanitizePrefix(brand string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(brand) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
		if b.Len() >= 5 {
			break
		}
	}
	return b.String()
}

// initials derives a prefix from up to three words of the store name.
func initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(strings.ToUpper(name)) {
		r := rune(word[0])
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
		if b.Len() >= 3 {
			break
		}
	}
	return b.String()
}
