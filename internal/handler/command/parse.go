package command

import (
	"fmt"
	"strconv"
	"strings"

	"cdk-distributor/internal/domain/pool"
)

type Kind string

const (
	KindNew     Kind = "new"
	KindAdd     Kind = "add"
	KindConfig  Kind = "config"
	KindDetails Kind = "details"
	KindClaim   Kind = "claim"
	KindHelp    Kind = "help"
)

// AdminOnly reports whether the subcommand is restricted to admins in a private channel.
func (k Kind) AdminOnly() bool {
	switch k {
	case KindNew, KindAdd, KindConfig, KindDetails:
		return true
	default:
		return false
	}
}

const prefix = "cdk"

const (
	usageRoot    = "Usage: /cdk <new|add|config|details|claim|help> ..."
	usageNew     = "Usage: /cdk new <pool_id> <source_url> [allow_duplicate] [shuffle] [overwrite] [max_per_user] [name]"
	usageAdd     = "Usage: /cdk add <pool_id> <source_url> [shuffle] [overwrite]"
	usageConfig  = "Usage: /cdk config <pool_id> [allow_duplicate] [max_per_user] [name]"
	usageDetails = "Usage: /cdk details <pool_id>"
	usageClaim   = "Usage: /claim <pool_id> [count]"
)

const HelpText = "CDK commands:\n" +
	"/cdk new <pool_id> <source_url> [allow_duplicate] [shuffle] [overwrite] [max_per_user] [name]\n" +
	"/cdk add <pool_id> <source_url> [shuffle] [overwrite]\n" +
	"/cdk config <pool_id> [allow_duplicate] [max_per_user] [name]\n" +
	"/cdk details <pool_id>\n" +
	"/cdk claim <pool_id> [count]"

type Command interface {
	Kind() Kind
}

type New struct {
	PoolID      pool.ID
	SourceURL   string
	AllowRepeat bool
	Shuffle     bool
	Overwrite   bool
	MaxPerUser  int
	Name        string
}

type Add struct {
	PoolID    pool.ID
	SourceURL string
	Shuffle   bool
	Overwrite bool
}

type Config struct {
	PoolID pool.ID
	Patch  pool.ConfigPatch
}

type Details struct {
	PoolID pool.ID
}

type Claim struct {
	PoolID pool.ID
	Count  int
}

type Help struct{}

func (New) Kind() Kind     { return KindNew }
func (Add) Kind() Kind     { return KindAdd }
func (Config) Kind() Kind  { return KindConfig }
func (Details) Kind() Kind { return KindDetails }
func (Claim) Kind() Kind   { return KindClaim }
func (Help) Kind() Kind    { return KindHelp }

// UsageError carries the usage line shown back to the caller.
type UsageError struct {
	Kind   Kind
	Usage  string
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason == "" {
		return e.Usage
	}
	return e.Reason + "\n" + e.Usage
}

func usageFor(k Kind) string {
	switch k {
	case KindNew:
		return usageNew
	case KindAdd:
		return usageAdd
	case KindConfig:
		return usageConfig
	case KindDetails:
		return usageDetails
	case KindClaim:
		return usageClaim
	default:
		return usageRoot
	}
}

func usageErr(k Kind, format string, args ...any) *UsageError {
	reason := ""
	if format != "" {
		reason = fmt.Sprintf(format, args...)
	}
	return &UsageError{Kind: k, Usage: usageFor(k), Reason: reason}
}

// Parse accepts "/cdk <sub> ...", "cdk <sub> ...", a bare "<sub> ..." and
// the "/claim <pool_id> [count]" shortcut.
func Parse(text string) (Command, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, usageErr("", "")
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	var (
		kind Kind
		args []string
	)
	if head == prefix {
		if len(tokens) < 2 {
			return nil, usageErr("", "")
		}
		kind, args = Kind(strings.ToLower(tokens[1])), tokens[2:]
	} else {
		kind, args = Kind(head), tokens[1:]
	}

	switch kind {
	case KindHelp:
		return Help{}, nil
	case KindNew:
		return parseNew(args)
	case KindAdd:
		return parseAdd(args)
	case KindConfig:
		return parseConfig(args)
	case KindDetails:
		return parseDetails(args)
	case KindClaim:
		return parseClaim(args)
	default:
		return nil, &UsageError{Kind: kind, Usage: usageRoot, Reason: fmt.Sprintf("Unknown subcommand: %s", kind)}
	}
}

func parseNew(args []string) (Command, error) {
	if len(args) < 2 {
		return nil, usageErr(KindNew, "")
	}
	id, err := parsePoolID(KindNew, args[0])
	if err != nil {
		return nil, err
	}
	cmd := New{PoolID: id, SourceURL: args[1], MaxPerUser: pool.DefaultMaxPerUser, Name: id.String()}

	flags := []*bool{&cmd.AllowRepeat, &cmd.Shuffle, &cmd.Overwrite}
	names := []string{"allow_duplicate", "shuffle", "overwrite"}
	for i, dst := range flags {
		if len(args) <= 2+i {
			break
		}
		v, err := parseBool(KindNew, names[i], args[2+i])
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	if len(args) > 5 {
		n, err := parseNonNegative(KindNew, "max_per_user", args[5])
		if err != nil {
			return nil, err
		}
		cmd.MaxPerUser = n
	}
	if len(args) > 6 {
		cmd.Name = strings.Join(args[6:], " ")
	}
	return cmd, nil
}

func parseAdd(args []string) (Command, error) {
	if len(args) < 2 {
		return nil, usageErr(KindAdd, "")
	}
	id, err := parsePoolID(KindAdd, args[0])
	if err != nil {
		return nil, err
	}
	cmd := Add{PoolID: id, SourceURL: args[1]}
	if len(args) > 2 {
		if cmd.Shuffle, err = parseBool(KindAdd, "shuffle", args[2]); err != nil {
			return nil, err
		}
	}
	if len(args) > 3 {
		if cmd.Overwrite, err = parseBool(KindAdd, "overwrite", args[3]); err != nil {
			return nil, err
		}
	}
	if len(args) > 4 {
		return nil, usageErr(KindAdd, "Too many arguments")
	}
	return cmd, nil
}

func parseConfig(args []string) (Command, error) {
	if len(args) < 1 {
		return nil, usageErr(KindConfig, "")
	}
	id, err := parsePoolID(KindConfig, args[0])
	if err != nil {
		return nil, err
	}
	cmd := Config{PoolID: id}
	if len(args) > 1 {
		v, err := parseBool(KindConfig, "allow_duplicate", args[1])
		if err != nil {
			return nil, err
		}
		cmd.Patch.AllowRepeat = &v
	}
	if len(args) > 2 {
		n, err := parseNonNegative(KindConfig, "max_per_user", args[2])
		if err != nil {
			return nil, err
		}
		cmd.Patch.MaxPerUser = &n
	}
	if len(args) > 3 {
		name := strings.Join(args[3:], " ")
		cmd.Patch.Name = &name
	}
	return cmd, nil
}

func parseDetails(args []string) (Command, error) {
	if len(args) != 1 {
		return nil, usageErr(KindDetails, "")
	}
	id, err := parsePoolID(KindDetails, args[0])
	if err != nil {
		return nil, err
	}
	return Details{PoolID: id}, nil
}

func parseClaim(args []string) (Command, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, usageErr(KindClaim, "")
	}
	id, err := parsePoolID(KindClaim, args[0])
	if err != nil {
		return nil, err
	}
	cmd := Claim{PoolID: id, Count: 1}
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return nil, usageErr(KindClaim, "count must be a positive number, got %q", args[1])
		}
		cmd.Count = n
	}
	return cmd, nil
}

func parsePoolID(k Kind, raw string) (pool.ID, error) {
	id, err := pool.NewID(raw)
	if err != nil {
		return "", usageErr(k, "Invalid pool id: %s", err)
	}
	return id, nil
}

func parseBool(k Kind, name, raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, usageErr(k, "%s must be true or false, got %q", name, raw)
	}
}

func parseNonNegative(k Kind, name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, usageErr(k, "%s must be a non-negative number, got %q", name, raw)
	}
	return n, nil
}
