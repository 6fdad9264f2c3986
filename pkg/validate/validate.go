// Package validate provides composable option validators producing reports.
package validate

import (
	"sort"

	"github.com/cuemby/hacfg/pkg/reports"
)

// ValuePair keeps the value as entered next to its normalized form. Validators
// check the normalized value and report the original one.
type ValuePair struct {
	Original   string
	Normalized string
}

// Normalizer maps an option name and value onto the normalized value
type Normalizer func(name, value string) string

// ValuesToPairs normalizes options
func ValuesToPairs(options map[string]string, normalize Normalizer) map[string]ValuePair {
	pairs := make(map[string]ValuePair, len(options))
	for name, value := range options {
		pairs[name] = ValuePair{Original: value, Normalized: normalize(name, value)}
	}
	return pairs
}

// PairsToValues keeps the normalized values only
func PairsToValues(pairs map[string]ValuePair) map[string]string {
	values := make(map[string]string, len(pairs))
	for name, pair := range pairs {
		values[name] = pair.Normalized
	}
	return values
}

// Validator checks one aspect of an option set
type Validator func(options map[string]ValuePair) []reports.Item

// RunCollection runs every validator and concatenates their reports
func RunCollection(options map[string]ValuePair, validators []Validator) []reports.Item {
	var items []reports.Item
	for _, v := range validators {
		items = append(items, v(options)...)
	}
	return items
}

// IsRequired fails when the option is missing
func IsRequired(name, optionType string) Validator {
	return func(options map[string]ValuePair) []reports.Item {
		if _, ok := options[name]; ok {
			return nil
		}
		return []reports.Item{reports.NewRequiredOptionIsMissing([]string{name}, optionType)}
	}
}

// ValueInOptions tunes ValueIn
type ValueInOptions struct {
	// OptionNameForReport replaces the option name in the report
	OptionNameForReport string
	// ForceCode makes the failure forceable
	ForceCode reports.ForceCode
	// AllowExtraValues downgrades the failure to a warning
	AllowExtraValues bool
}

// ValueIn fails when the option is present and not one of allowed
func ValueIn(name string, allowed []string, opts ValueInOptions) Validator {
	return func(options map[string]ValuePair) []reports.Item {
		value, ok := options[name]
		if !ok || contains(allowed, value.Normalized) {
			return nil
		}
		reportName := name
		if opts.OptionNameForReport != "" {
			reportName = opts.OptionNameForReport
		}
		severity, forceable := reports.SeverityFor(opts.ForceCode, opts.AllowExtraValues)
		return []reports.Item{reports.NewInvalidOptionValue(
			reportName, value.Original, allowed, severity, forceable, opts.ForceCode,
		)}
	}
}

// MutuallyExclusive fails when more than one of names is present
func MutuallyExclusive(names []string, optionType string) Validator {
	return func(options map[string]ValuePair) []reports.Item {
		var present []string
		for _, name := range names {
			if _, ok := options[name]; ok {
				present = append(present, name)
			}
		}
		if len(present) < 2 {
			return nil
		}
		return []reports.Item{reports.NewMutuallyExclusiveOptions(present, optionType)}
	}
}

// ValueID fails when the option is present and not a valid id
func ValueID(name, description string) Validator {
	return func(options map[string]ValuePair) []reports.Item {
		value, ok := options[name]
		if !ok {
			return nil
		}
		if item := ID(value.Normalized, description); item != nil {
			return []reports.Item{*item}
		}
		return nil
	}
}

// NamesIn reports option names not in allowed
func NamesIn(allowed, names []string, optionType string, force reports.ForceCode, allowExtra bool) []reports.Item {
	var invalid []string
	for _, name := range names {
		if !contains(allowed, name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	sort.Strings(invalid)
	severity, forceable := reports.SeverityFor(force, allowExtra)
	return []reports.Item{reports.NewInvalidOptions(invalid, allowed, optionType, severity, forceable, force)}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
