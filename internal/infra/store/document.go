package store

import (
	"bytes"
	"encoding/json"
	"time"

	"cdk-distributor/internal/domain/pool"
	"cdk-distributor/internal/domain/user"
	"cdk-distributor/internal/pkg/errs"
)

// naiveISOLayout accepts the timezone-less timestamps older snapshots carry.
const naiveISOLayout = "2006-01-02T15:04:05.999999999"

type itemDocument struct {
	Code string `json:"code"`
	Used bool   `json:"used"`
	User string `json:"user"`
	Time string `json:"time"`
}

type poolDocument struct {
	Name           *string        `json:"name,omitempty"`
	AllowDuplicate bool           `json:"allow_duplicate"`
	MaxPerUser     *int           `json:"max_per_user,omitempty"`
	Items          []itemDocument `json:"items"`
	UserRecords    map[string]int `json:"user_records"`
}

// Encode renders the whole registry as one JSON document keyed by pool id.
func Encode(pools map[pool.ID]*pool.Pool) ([]byte, error) {
	doc := make(map[string]poolDocument, len(pools))
	for id, p := range pools {
		doc[string(id)] = toDocument(p)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errs.Wrap(err, "encode pool document")
	}
	return buf.Bytes(), nil
}

// Decode parses a document produced by Encode. Empty input yields an empty
// mapping; anything unparsable is an error so callers can log it.
func Decode(data []byte) (map[pool.ID]*pool.Pool, error) {
	pools := make(map[pool.ID]*pool.Pool)
	if len(bytes.TrimSpace(data)) == 0 {
		return pools, nil
	}

	var doc map[string]poolDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(err, "decode pool document")
	}

	for rawID, pd := range doc {
		id := pool.ID(rawID)
		p, err := fromDocument(id, pd)
		if err != nil {
			return nil, errs.Wrapf(err, "pool %q", rawID)
		}
		pools[id] = p
	}
	return pools, nil
}

func toDocument(p *pool.Pool) poolDocument {
	name := p.Name()
	maxPerUser := p.MaxPerUser()

	items := p.Items()
	itemDocs := make([]itemDocument, 0, len(items))
	for _, it := range items {
		d := itemDocument{Code: it.Code, Used: it.Consumed, User: string(it.ClaimedBy)}
		if !it.ClaimedAt.IsZero() {
			d.Time = it.ClaimedAt.UTC().Format(time.RFC3339Nano)
		}
		itemDocs = append(itemDocs, d)
	}

	records := make(map[string]int)
	for u, n := range p.UserRecords() {
		records[string(u)] = n
	}

	return poolDocument{
		Name:           &name,
		AllowDuplicate: p.AllowRepeat(),
		MaxPerUser:     &maxPerUser,
		Items:          itemDocs,
		UserRecords:    records,
	}
}

func fromDocument(id pool.ID, pd poolDocument) (*pool.Pool, error) {
	settings := pool.Settings{
		AllowRepeat: pd.AllowDuplicate,
		MaxPerUser:  pool.DefaultMaxPerUser,
	}
	if pd.MaxPerUser != nil {
		settings.MaxPerUser = *pd.MaxPerUser
	}

	var name string
	if pd.Name != nil {
		name = *pd.Name
	}

	items := make([]pool.CodeItem, 0, len(pd.Items))
	for i, d := range pd.Items {
		at, err := parseClaimTime(d.Time)
		if err != nil {
			return nil, errs.Wrapf(err, "item %d", i)
		}
		items = append(items, pool.CodeItem{
			Code:      d.Code,
			Consumed:  d.Used,
			ClaimedBy: user.ID(d.User),
			ClaimedAt: at,
		})
	}

	records := make(map[user.ID]int, len(pd.UserRecords))
	for u, n := range pd.UserRecords {
		records[user.ID(u)] = n
	}

	return pool.Reconstruct(id, name, settings, items, records), nil
}

func parseClaimTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(naiveISOLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errs.Wrapf(err, "unrecognised claim time %q", s)
	}
	return t, nil
}
