package response

import (
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/usecase/commands"
	"cdk-distributor/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type PoolResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Total       int    `json:"total"`
	Remaining   int    `json:"remaining"`
	Claimed     int    `json:"claimed"`
	MaxPerUser  int    `json:"max_per_user"`
	AllowRepeat bool   `json:"allow_duplicate"`
	UserCount   int    `json:"user_count"`
}

type PoolListResponse struct {
	Pools []PoolResponse `json:"pools"`
}

type AppendCodesResponse struct {
	ID        string `json:"id"`
	Total     int    `json:"total"`
	Persisted bool   `json:"persisted"`
}

type ClaimResponse struct {
	PoolID    string    `json:"pool_id"`
	Codes     []string  `json:"codes"`
	ClaimedAt time.Time `json:"claimed_at"`
	Persisted bool      `json:"persisted"`
}

func FromPoolView(v *queries.PoolView) (*PoolResponse, error) {
	var resp PoolResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromPoolViews(vs []queries.PoolView) (*PoolListResponse, error) {
	pools := make([]PoolResponse, 0, len(vs))
	for i := range vs {
		resp, err := FromPoolView(&vs[i])
		if err != nil {
			return nil, err
		}
		pools = append(pools, *resp)
	}
	return &PoolListResponse{Pools: pools}, nil
}

func FromSummary(s *pool.Summary) *PoolResponse {
	return &PoolResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Total:       s.Total,
		Remaining:   s.Remaining,
		Claimed:     s.Claimed,
		MaxPerUser:  s.MaxPerUser,
		AllowRepeat: s.AllowRepeat,
	}
}

func FromClaimResult(r *commands.ClaimResult) *ClaimResponse {
	return &ClaimResponse{
		PoolID:    r.PoolID.String(),
		Codes:     r.Codes,
		ClaimedAt: r.ClaimedAt,
		Persisted: r.Persisted,
	}
}
