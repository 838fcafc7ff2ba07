package settings

import (
	"log"
	"strings"
	"time"

	"github.com/notexe/cli-assistant/internal/store"
)

// Unlimited is returned by DailyLimit and Remaining when a personal API key
// removes the daily cap.
const Unlimited = -1

var planLimits = map[Plan]int{
	PlanFree:    500,
	PlanPro:     5000,
	PlanPremium: 50000,
}

// tokenUsage is the persisted daily counter. The date key is the local
// calendar day; a stale key means the counter implicitly reset.
type tokenUsage struct {
	Date string `json:"date"`
	Used int    `json:"used"`
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DailyLimit returns the daily token limit for the active plan, or Unlimited
// when a non-empty personal API key is configured.
func (m *Manager) DailyLimit() int {
	s := m.Get()
	if strings.TrimSpace(s.APIKey) != "" {
		return Unlimited
	}
	if limit, ok := planLimits[s.Plan]; ok {
		return limit
	}
	return planLimits[PlanFree]
}

// UsageToday returns the number of tokens consumed today. A usage record
// from a previous calendar day counts as zero.
func (m *Manager) UsageToday() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usageTodayLocked()
}

func (m *Manager) usageTodayLocked() int {
	var u tokenUsage
	found, err := m.store.Load(store.PartitionTokenUsage, &u)
	if err != nil {
		log.Printf("[settings] usage read failed: %v", err)
		return 0
	}
	if !found || u.Date != dayKey(m.now()) {
		return 0
	}
	return u.Used
}

// Remaining returns the tokens left today, or Unlimited.
func (m *Manager) Remaining() int {
	limit := m.DailyLimit()
	if limit == Unlimited {
		return Unlimited
	}
	left := limit - m.UsageToday()
	if left < 0 {
		return 0
	}
	return left
}

// CanUse reports whether n more tokens fit into today's budget.
func (m *Manager) CanUse(n int) bool {
	limit := m.DailyLimit()
	if limit == Unlimited {
		return true
	}
	return m.UsageToday()+n <= limit
}

// Consume debits n tokens. It fails without mutating anything if the debit
// would exceed the daily limit. The check and the write happen under one
// lock, so a single-process caller never sees a partial debit.
func (m *Manager) Consume(n int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.usageTodayLocked()
	limit := m.DailyLimit()
	if limit != Unlimited && used+n > limit {
		return false, nil
	}

	u := tokenUsage{Date: dayKey(m.now()), Used: used + n}
	if err := m.store.Save(store.PartitionTokenUsage, u); err != nil {
		return false, err
	}
	return true, nil
}

// ResetUsage zeroes today's counter. Used when the user switches plans.
func (m *Manager) ResetUsage() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Clear(store.PartitionTokenUsage)
}
