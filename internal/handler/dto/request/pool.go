package request

import (
	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/usecase/commands"
)

type CreatePoolRequest struct {
	ID             string `json:"id" binding:"required,max=128"`
	SourceURL      string `json:"source_url" binding:"required,url"`
	Name           string `json:"name,omitempty" binding:"max=256"`
	AllowDuplicate bool   `json:"allow_duplicate"`
	Shuffle        bool   `json:"shuffle"`
	Overwrite      bool   `json:"overwrite"`
	MaxPerUser     *int   `json:"max_per_user,omitempty" binding:"omitempty,min=0"`
}

func (r CreatePoolRequest) ToParams() (commands.CreatePoolParams, error) {
	id, err := pool.NewID(r.ID)
	if err != nil {
		return commands.CreatePoolParams{}, err
	}
	maxPerUser := pool.DefaultMaxPerUser
	if r.MaxPerUser != nil {
		maxPerUser = *r.MaxPerUser
	}
	return commands.CreatePoolParams{
		ID:          id,
		SourceURL:   r.SourceURL,
		Name:        r.Name,
		AllowRepeat: r.AllowDuplicate,
		Shuffle:     r.Shuffle,
		Overwrite:   r.Overwrite,
		MaxPerUser:  maxPerUser,
	}, nil
}

type AppendCodesRequest struct {
	SourceURL string `json:"source_url" binding:"required,url"`
	Shuffle   bool   `json:"shuffle"`
	Overwrite bool   `json:"overwrite"`
}

func (r AppendCodesRequest) ToParams(id pool.ID) commands.AppendCodesParams {
	return commands.AppendCodesParams{
		ID:        id,
		SourceURL: r.SourceURL,
		Shuffle:   r.Shuffle,
		Overwrite: r.Overwrite,
	}
}

// Omitted fields keep their current value.
type ConfigurePoolRequest struct {
	AllowDuplicate *bool   `json:"allow_duplicate,omitempty"`
	MaxPerUser     *int    `json:"max_per_user,omitempty" binding:"omitempty,min=0"`
	Name           *string `json:"name,omitempty" binding:"omitempty,min=1,max=256"`
}

func (r ConfigurePoolRequest) ToPatch() pool.ConfigPatch {
	return pool.ConfigPatch{
		AllowRepeat: r.AllowDuplicate,
		MaxPerUser:  r.MaxPerUser,
		Name:        r.Name,
	}
}

type ClaimRequest struct {
	Count int `json:"count,omitempty" binding:"omitempty,min=1"`
}

func (r ClaimRequest) RequestedCount() int {
	if r.Count == 0 {
		return 1
	}
	return r.Count
}
