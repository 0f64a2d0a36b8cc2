package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Entitlements remembers whether a billing customer has an active subscription.
type Entitlements struct {
	store *gocache.Cache
	ttl   time.Duration
}

func NewEntitlements(ttl time.Duration) *Entitlements {
	return &Entitlements{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get returns the cached status and whether an entry existed.
func (e *Entitlements) Get(customerID string) (active bool, found bool) {
	v, ok := e.store.Get(customerID)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

func (e *Entitlements) Set(customerID string, active bool) {
	e.store.Set(customerID, active, e.ttl)
}

func (e *Entitlements) Forget(customerID string) {
	e.store.Delete(customerID)
}

// Quota counts free audits per client per UTC day.
type Quota struct {
	store *gocache.Cache
	limit int
	now   func() time.Time
}

// NewQuota creates a daily quota. A limit of 0 disables it.
func NewQuota(limit int) *Quota {
	return &Quota{
		store: gocache.New(24*time.Hour, time.Hour),
		limit: limit,
		now:   time.Now,
	}
}

// Allow records one audit for client and reports whether it is within the limit.
func (q *Quota) Allow(client string) bool {
	if q.limit == 0 {
		return true
	}

	key := q.key(client)
	if err := q.store.Add(key, 1, q.untilMidnight()); err == nil {
		return true
	}

	n, err := q.store.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		q.store.Set(key, 1, q.untilMidnight())
		return true
	}
	return n <= q.limit
}

// Remaining returns how many free audits client has left today.
func (q *Quota) Remaining(client string) int {
	if q.limit == 0 {
		return -1
	}
	v, ok := q.store.Get(q.key(client))
	if !ok {
		return q.limit
	}
	return max(0, q.limit-v.(int))
}

func (q *Quota) key(client string) string {
	return fmt.Sprintf("%s|%s", q.now().UTC().Format("2006-01-02"), client)
}

func (q *Quota) untilMidnight() time.Duration {
	now := q.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return midnight.Sub(now)
}
