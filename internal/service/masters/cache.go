package masters

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ghostplan/matrix/internal/domain/models"
)

// Fetcher loads master data from the upstream API.
type Fetcher interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListItemTypes(ctx context.Context, accountID string) ([]models.ItemType, error)
}

// Cache keeps the account and item-type masters warm. Masters change
// rarely; the grid refuses to render until they are available, so a fetch
// failure here is surfaced to the caller rather than papered over.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  *zap.Logger

	mu        sync.RWMutex
	accounts  []models.Account
	itemTypes []models.ItemType
	fetchedAt time.Time
}

// NewCache wires a master-data cache with the given freshness window.
func NewCache(fetcher Fetcher, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{fetcher: fetcher, ttl: ttl, logger: logger}
}

// Masters returns the cached account and item-type lists, refreshing them
// when stale. A refresh failure with no prior data is the caller's error;
// with prior data, the stale copy is served and the failure logged.
func (c *Cache) Masters(ctx context.Context) ([]models.Account, []models.ItemType, error) {
	c.mu.RLock()
	fresh := !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl
	accounts, itemTypes := c.accounts, c.itemTypes
	c.mu.RUnlock()

	if fresh {
		return accounts, itemTypes, nil
	}

	if err := c.Refresh(ctx); err != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.fetchedAt.IsZero() {
			return nil, nil, err
		}
		c.logger.Warn("masters refresh failed, serving stale copy", zap.Error(err))
		return c.accounts, c.itemTypes, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accounts, c.itemTypes, nil
}

// Refresh reloads both master lists from upstream.
func (c *Cache) Refresh(ctx context.Context) error {
	accounts, err := c.fetcher.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("refresh accounts: %w", err)
	}
	itemTypes, err := c.fetcher.ListItemTypes(ctx, "")
	if err != nil {
		return fmt.Errorf("refresh item types: %w", err)
	}

	c.mu.Lock()
	c.accounts = accounts
	c.itemTypes = itemTypes
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.logger.Debug("masters refreshed",
		zap.Int("accounts", len(accounts)),
		zap.Int("item_types", len(itemTypes)))
	return nil
}
