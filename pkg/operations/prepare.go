package operations

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cuemby/hacfg/pkg/agent"
	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/reports"
	"github.com/cuemby/hacfg/pkg/validate"
)

// Operation is an operation descriptor: attribute name to value
type Operation = agent.Operation

// Attributes lists every attribute an operation may carry
var Attributes = []string{
	"id",
	"description",
	"enabled",
	"interval",
	"interval-origin",
	"name",
	"on-fail",
	"record-pending",
	"requires",
	"role",
	"start-delay",
	"timeout",
	CheckLevelAttribute,
}

// CheckLevelAttribute is stored as an nvpair of the op rather than as an op
// attribute
const CheckLevelAttribute = "OCF_CHECK_LEVEL"

var (
	RoleValues          = []string{"Stopped", "Started", "Slave", "Master"}
	RequiresValues      = []string{"nothing", "quorum", "fencing", "unfencing"}
	OnFailValues        = []string{"ignore", "block", "stop", "restart", "standby", "fence", "restart-container"}
	BooleanValues       = []string{"0", "1", "true", "false"}
	operationOptionType = "resource operation"
)

type normalization int

const (
	keepValue normalization = iota
	lowerCase
	lowerCaseCapitalized
)

func normalizationOf(name string) normalization {
	switch name {
	case "role":
		return lowerCaseCapitalized
	case "requires", "on-fail", "record-pending", "enabled":
		return lowerCase
	default:
		return keepValue
	}
}

// Normalize canonicalizes the value of an operation attribute
func Normalize(name, value string) string {
	switch normalizationOf(name) {
	case lowerCase:
		return strings.ToLower(value)
	case lowerCaseCapitalized:
		lower := strings.ToLower(value)
		first, size := utf8.DecodeRuneInString(lower)
		if size == 0 {
			return lower
		}
		return string(unicode.ToUpper(first)) + lower[size:]
	default:
		return value
	}
}

// Prepare turns operations entered by the user into the operation list of a
// new resource. Entered operations are normalized, validated and completed
// from the agent defaults. Defaults of operations the user did not mention
// are appended with their intervals made unique. Validation problems are
// processed together and abort before anything is returned.
func Prepare(
	proc *reports.Processor,
	raw []Operation,
	defaults []Operation,
	allowedNames []string,
	allowInvalid bool,
) ([]Operation, error) {
	normalized := make([]map[string]validate.ValuePair, 0, len(raw))
	for _, op := range raw {
		normalized = append(normalized, validate.ValuesToPairs(op, Normalize))
	}

	items := ValidateOperationList(normalized, allowedNames, allowInvalid)

	ops := make([]Operation, 0, len(normalized))
	for _, pairs := range normalized {
		ops = append(ops, validate.PairsToValues(pairs))
	}
	items = append(items, ValidateDifferentIntervals(ops)...)

	if err := proc.ProcessList(items); err != nil {
		return nil, err
	}

	entered := completeDefaults(agent.CompleteAllIntervals(ops), defaults)
	remaining, adapted := GetRemainingDefaults(ops, defaults)
	if err := proc.ProcessList(adapted); err != nil {
		return nil, err
	}
	return append(entered, remaining...), nil
}

// ValidateOperationList validates every normalized operation
func ValidateOperationList(ops []map[string]validate.ValuePair, allowedNames []string, allowInvalid bool) []reports.Item {
	validators := []validate.Validator{
		validate.IsRequired("name", operationOptionType),
		validate.ValueIn("role", RoleValues, validate.ValueInOptions{}),
		validate.ValueIn("requires", RequiresValues, validate.ValueInOptions{}),
		validate.ValueIn("on-fail", OnFailValues, validate.ValueInOptions{}),
		validate.ValueIn("record-pending", BooleanValues, validate.ValueInOptions{}),
		validate.ValueIn("enabled", BooleanValues, validate.ValueInOptions{}),
		validate.MutuallyExclusive([]string{"interval-origin", "start-delay"}, operationOptionType),
		validate.ValueIn("name", allowedNames, validate.ValueInOptions{
			OptionNameForReport: "operation name",
			ForceCode:           reports.ForceOptions,
			AllowExtraValues:    allowInvalid,
		}),
		validate.ValueID("id", "operation id"),
	}

	var items []reports.Item
	for _, op := range ops {
		names := make([]string, 0, len(op))
		for name := range op {
			names = append(names, name)
		}
		items = append(items, validate.NamesIn(Attributes, names, operationOptionType, reports.ForceOptions, allowInvalid)...)
		items = append(items, validate.RunCollection(op, validators)...)
	}
	return items
}

// ValidateDifferentIntervals fails when operations of the same name end up
// with the same interval. A missing interval counts as the default one.
// Intervals that are not valid time values only collide with the same text.
func ValidateDifferentIntervals(ops []Operation) []reports.Item {
	type group struct {
		key       string
		intervals []string
	}
	byName := make(map[string][]*group)
	for _, op := range ops {
		name, ok := op["name"]
		if !ok {
			continue
		}
		interval, ok := op["interval"]
		if !ok {
			interval = agent.DefaultInterval(name)
		}
		key := "text:" + interval
		if seconds, ok := cib.TimeoutToSeconds(interval); ok {
			key = strconv.Itoa(seconds)
		}

		var found *group
		for _, g := range byName[name] {
			if g.key == key {
				found = g
				break
			}
		}
		if found == nil {
			found = &group{key: key}
			byName[name] = append(byName[name], found)
		}
		found.intervals = append(found.intervals, interval)
	}

	duplications := make(map[string][][]string)
	for name, groups := range byName {
		var collisions [][]string
		for _, g := range groups {
			if len(g.intervals) > 1 {
				collisions = append(collisions, g.intervals)
			}
		}
		if len(collisions) == 0 {
			continue
		}
		sort.Slice(collisions, func(i, j int) bool {
			return lessStrings(collisions[i], collisions[j])
		})
		duplications[name] = collisions
	}
	if len(duplications) == 0 {
		return nil
	}
	return []reports.Item{reports.NewResourceOperationIntervalDuplication(duplications)}
}

func lessStrings(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// GetRemainingDefaults returns the defaults whose name no entered operation
// uses, with intervals made unique, and the adaptation reports
func GetRemainingDefaults(entered, defaults []Operation) ([]Operation, []reports.Item) {
	used := make(map[string]bool, len(entered))
	for _, op := range entered {
		used[op["name"]] = true
	}
	var remaining []Operation
	for _, op := range defaults {
		if !used[op["name"]] {
			remaining = append(remaining, op)
		}
	}
	return MakeUniqueIntervals(remaining)
}

// MakeUniqueIntervals returns copies of ops where operations of the same name
// have distinct intervals. A colliding interval is moved up one second at a
// time until it is free and rendered as plain seconds. Intervals that are not
// valid time values are kept.
func MakeUniqueIntervals(ops []Operation) ([]Operation, []reports.Item) {
	uniquer := newIntervalUniquer()
	var items []reports.Item
	adaptedOps := make([]Operation, 0, len(ops))
	for _, op := range ops {
		adapted := copyOperation(op)
		if interval, ok := op["interval"]; ok {
			adapted["interval"] = uniquer.claim(op["name"], interval)
			if adapted["interval"] != interval {
				items = append(items, reports.NewResourceOperationIntervalAdapted(
					op["name"], interval, adapted["interval"],
				))
			}
		}
		adaptedOps = append(adaptedOps, adapted)
	}
	return adaptedOps, items
}

// intervalUniquer remembers the intervals claimed per operation name
type intervalUniquer struct {
	used map[string]map[int]bool
}

func newIntervalUniquer() *intervalUniquer {
	return &intervalUniquer{used: make(map[string]map[int]bool)}
}

func (u *intervalUniquer) claim(name, interval string) string {
	seconds, ok := cib.TimeoutToSeconds(interval)
	if !ok {
		return interval
	}
	used := u.used[name]
	if used == nil {
		used = make(map[int]bool)
		u.used[name] = used
	}
	if !used[seconds] {
		used[seconds] = true
		return interval
	}
	for used[seconds] {
		seconds++
	}
	used[seconds] = true
	return strconv.Itoa(seconds)
}

// completeDefaults copies attributes of the matching agent default into each
// entered operation. The match is the first default of the same name with the
// same interval, or the first default of the same name.
func completeDefaults(ops, defaults []Operation) []Operation {
	for _, op := range ops {
		match := matchingDefault(op, defaults)
		if match == nil {
			continue
		}
		for k, v := range match {
			if k == "id" || k == "interval" {
				continue
			}
			if _, ok := op[k]; !ok {
				op[k] = v
			}
		}
	}
	return ops
}

func matchingDefault(op Operation, defaults []Operation) Operation {
	seconds, valid := cib.TimeoutToSeconds(op["interval"])
	var first Operation
	for _, def := range defaults {
		if def["name"] != op["name"] {
			continue
		}
		if first == nil {
			first = def
		}
		defInterval, ok := def["interval"]
		if !ok {
			defInterval = agent.DefaultInterval(def["name"])
		}
		if defSeconds, ok := cib.TimeoutToSeconds(defInterval); ok && valid && defSeconds == seconds {
			return def
		}
	}
	return first
}

func copyOperation(op Operation) Operation {
	c := make(Operation, len(op))
	for k, v := range op {
		c[k] = v
	}
	return c
}
