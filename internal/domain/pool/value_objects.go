package pool

import (
	"errors"
	"strings"
	"time"

	"cdk-distributor/internal/domain/user"
)

var (
	ErrEmptyPoolID       = errors.New("pool id cannot be empty")
	ErrPoolIDHasSpace    = errors.New("pool id cannot contain whitespace")
	ErrInvalidMaxPerUser = errors.New("max per user cannot be negative")
	ErrNoCodesLeft       = errors.New("no unconsumed codes left")
	ErrAllowanceUsedUp   = errors.New("user allowance used up")
)

const DefaultMaxPerUser = 1

type ID string

func NewID(raw string) (ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyPoolID
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return "", ErrPoolIDHasSpace
	}
	return ID(trimmed), nil
}

func (id ID) String() string { return string(id) }

// CodeItem is one distributable code. ClaimedBy and ClaimedAt stay zero until
// the item is consumed and are never touched again afterwards.
type CodeItem struct {
	Code      string
	Consumed  bool
	ClaimedBy user.ID
	ClaimedAt time.Time
}

type Settings struct {
	AllowRepeat bool
	MaxPerUser  int
}

func DefaultSettings() Settings {
	return Settings{MaxPerUser: DefaultMaxPerUser}
}

func (s Settings) Validate() error {
	if s.MaxPerUser < 0 {
		return ErrInvalidMaxPerUser
	}
	return nil
}

// ConfigPatch carries a partial update; nil fields keep the current value.
type ConfigPatch struct {
	AllowRepeat *bool
	MaxPerUser  *int
	Name        *string
}

func (p ConfigPatch) IsEmpty() bool {
	return p.AllowRepeat == nil && p.MaxPerUser == nil && p.Name == nil
}

type Summary struct {
	ID          ID
	Name        string
	Total       int
	Remaining   int
	Claimed     int
	MaxPerUser  int
	AllowRepeat bool
}

// ShuffleFunc has the signature of rand.Shuffle so tests can inject a
// deterministic permutation.
type ShuffleFunc func(n int, swap func(i, j int))
