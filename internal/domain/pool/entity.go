package pool

import (
	"maps"
	"math/rand/v2"
	"slices"
	"strings"

	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/patch"
)

type Pool struct {
	id          ID
	name        string
	settings    Settings
	items       []CodeItem
	userRecords map[user.ID]int
}

// New builds a fresh pool from a raw code list. A nil shuffle keeps the
// source order; pass rand.Shuffle (or DefaultShuffle) to permute it once.
func New(id ID, name string, settings Settings, codes []string, shuffle ShuffleFunc) (*Pool, error) {
	if id == "" {
		return nil, ErrEmptyPoolID
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		id:          id,
		name:        displayName(id, name),
		settings:    settings,
		userRecords: make(map[user.ID]int),
	}
	p.items = newItems(codes, shuffle)
	return p, nil
}

// Reconstruct rebuilds a pool from persisted state without validation.
func Reconstruct(id ID, name string, settings Settings, items []CodeItem, userRecords map[user.ID]int) *Pool {
	if userRecords == nil {
		userRecords = make(map[user.ID]int)
	}
	if items == nil {
		items = []CodeItem{}
	}
	return &Pool{
		id:          id,
		name:        displayName(id, name),
		settings:    settings,
		items:       items,
		userRecords: userRecords,
	}
}

func DefaultShuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

func (p *Pool) Clone() *Pool {
	return &Pool{
		id:          p.id,
		name:        p.name,
		settings:    p.settings,
		items:       slices.Clone(p.items),
		userRecords: maps.Clone(p.userRecords),
	}
}

// Append adds codes after the existing items. With replace the current items
// are discarded, consumption history included, but user records are kept so
// a user's lifetime count never goes down.
func (p *Pool) Append(codes []string, replace bool, shuffle ShuffleFunc) int {
	batch := newItems(codes, shuffle)
	if replace {
		p.items = batch
	} else {
		p.items = append(p.items, batch...)
	}
	return len(p.items)
}

func (p *Pool) Configure(cp ConfigPatch) error {
	next := Settings{
		AllowRepeat: patch.Coalesce(cp.AllowRepeat, p.settings.AllowRepeat),
		MaxPerUser:  patch.Coalesce(cp.MaxPerUser, p.settings.MaxPerUser),
	}
	if err := next.Validate(); err != nil {
		return err
	}

	p.settings = next
	if cp.Name != nil {
		p.name = displayName(p.id, *cp.Name)
	}
	return nil
}

func (p *Pool) Remaining() int {
	n := 0
	for i := range p.items {
		if !p.items[i].Consumed {
			n++
		}
	}
	return n
}

func (p *Pool) ClaimedBy(u user.ID) int { return p.userRecords[u] }

func (p *Pool) Summary() Summary {
	total := len(p.items)
	remaining := p.Remaining()
	return Summary{
		ID:          p.id,
		Name:        p.name,
		Total:       total,
		Remaining:   remaining,
		Claimed:     total - remaining,
		MaxPerUser:  p.settings.MaxPerUser,
		AllowRepeat: p.settings.AllowRepeat,
	}
}

func (p *Pool) ID() ID                       { return p.id }
func (p *Pool) Name() string                 { return p.name }
func (p *Pool) Settings() Settings           { return p.settings }
func (p *Pool) AllowRepeat() bool            { return p.settings.AllowRepeat }
func (p *Pool) MaxPerUser() int              { return p.settings.MaxPerUser }
func (p *Pool) Items() []CodeItem            { return slices.Clone(p.items) }
func (p *Pool) UserRecords() map[user.ID]int { return maps.Clone(p.userRecords) }

func newItems(codes []string, shuffle ShuffleFunc) []CodeItem {
	items := make([]CodeItem, 0, len(codes))
	for _, c := range codes {
		items = append(items, CodeItem{Code: c})
	}
	if shuffle != nil && len(items) > 1 {
		shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	}
	return items
}

func displayName(id ID, name string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return string(id)
}
