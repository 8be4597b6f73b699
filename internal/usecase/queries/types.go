package queries

import "cdk-distributor/internal/domain/pool"

type PoolView struct {
	ID          string
	Name        string
	Total       int
	Remaining   int
	Claimed     int
	MaxPerUser  int
	AllowRepeat bool
	UserCount   int
}

func toPoolView(p *pool.Pool) PoolView {
	s := p.Summary()
	return PoolView{
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
