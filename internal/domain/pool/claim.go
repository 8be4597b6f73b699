package pool

import (
	"time"

	"cdk-distributor/internal/domain/user"
)

// Claim assigns up to requested unconsumed codes to u in pool order.
//
// Exhaustion is reported before quota: an empty pool answers ErrNoCodesLeft
// even for a user who is also over quota. With AllowRepeat the per-user
// quota is ignored and the call is bounded only by what is left. A request
// that leaves nothing to take, including a non-positive one, is a quota miss.
func (p *Pool) Claim(u user.ID, requested int, now time.Time) ([]string, error) {
	unconsumed := p.unconsumedIndexes()
	if len(unconsumed) == 0 {
		return nil, ErrNoCodesLeft
	}

	prior := p.userRecords[u]
	if !p.settings.AllowRepeat && prior >= p.settings.MaxPerUser {
		return nil, ErrAllowanceUsedUp
	}

	allowance := requested
	if !p.settings.AllowRepeat {
		allowance = p.settings.MaxPerUser - prior
	}

	take := min(requested, allowance, len(unconsumed))
	if take <= 0 {
		return nil, ErrAllowanceUsedUp
	}

	codes := make([]string, 0, take)
	for _, idx := range unconsumed[:take] {
		item := &p.items[idx]
		item.Consumed = true
		item.ClaimedBy = u
		item.ClaimedAt = now
		codes = append(codes, item.Code)
	}
	p.userRecords[u] = prior + take

	return codes, nil
}

func (p *Pool) unconsumedIndexes() []int {
	idx := make([]int, 0, len(p.items))
	for i := range p.items {
		if !p.items[i].Consumed {
			idx = append(idx, i)
		}
	}
	return idx
}
