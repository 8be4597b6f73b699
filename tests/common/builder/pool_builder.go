//go:build unit || e2e

package builder

import (
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/domain/user"
	reqdto "cdk-distributor/internal/handler/dto/request"
	"cdk-distributor/internal/usecase/queries"
)

type PoolBuilder struct {
	ID          string
	Name        string
	AllowRepeat bool
	MaxPerUser  int
	Codes       []string
	// Claims are applied in order after the pool is built.
	Claims []ClaimSpec
}

type ClaimSpec struct {
	UserID string
	Count  int
	At     time.Time
}

func NewPoolBuilder() *PoolBuilder {
	return &PoolBuilder{
		ID:         "P",
		MaxPerUser: 1,
		Codes:      []string{"A", "B", "C"},
	}
}

func (b *PoolBuilder) With(mutate func(*PoolBuilder)) *PoolBuilder {
	mutate(b)
	return b
}

func (b *PoolBuilder) BuildDomain() (*pool.Pool, error) {
	p, err := pool.New(pool.ID(b.ID), b.Name, pool.Settings{AllowRepeat: b.AllowRepeat, MaxPerUser: b.MaxPerUser}, b.Codes, nil)
	if err != nil {
		return nil, err
	}
	for _, c := range b.Claims {
		at := c.At
		if at.IsZero() {
			at = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		if _, err := p.Claim(user.ID(c.UserID), c.Count, at); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (b *PoolBuilder) BuildView() *queries.PoolView {
	p, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	s := p.Summary()
	return &queries.PoolView{
		ID:          s.ID.String(),
		Name:        s.Name,
		Total:       s.Total,
		Remaining:   s.Remaining,
		Claimed:     s.Claimed,
		MaxPerUser:  s.MaxPerUser,
		AllowRepeat: s.AllowRepeat,
		UserCount:   len(p.UserRecords()),
	}
}

func (b *PoolBuilder) BuildSummary() *pool.Summary {
	p, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	s := p.Summary()
	return &s
}

func (b *PoolBuilder) BuildCreateDTO(sourceURL string) reqdto.CreatePoolRequest {
	maxPerUser := b.MaxPerUser
	return reqdto.CreatePoolRequest{
		ID:             b.ID,
		SourceURL:      sourceURL,
		Name:           b.Name,
		AllowDuplicate: b.AllowRepeat,
		MaxPerUser:     &maxPerUser,
	}
}
