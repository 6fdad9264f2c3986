package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/hacfg/pkg/reports"
)

func pairs(options map[string]string) map[string]ValuePair {
	return ValuesToPairs(options, func(_, value string) string { return strings.ToLower(value) })
}

func TestValueInReportsOriginalValue(t *testing.T) {
	items := ValueIn("role", []string{"master", "slave"}, ValueInOptions{})(pairs(map[string]string{"role": "Boss"}))

	require.Len(t, items, 1)
	assert.Equal(t, reports.InvalidOptionValue, items[0].Code)
	payload := items[0].Payload.(reports.OptionValuePayload)
	assert.Equal(t, "Boss", payload.OptionValue)
	assert.Equal(t, reports.SeverityError, items[0].Severity)
	assert.False(t, items[0].Forceable)
}

func TestValueInForceable(t *testing.T) {
	validator := ValueIn("name", []string{"monitor"}, ValueInOptions{
		OptionNameForReport: "operation name",
		ForceCode:           reports.ForceOptions,
	})

	items := validator(pairs(map[string]string{"name": "moniter"}))
	require.Len(t, items, 1)
	assert.True(t, items[0].Forceable)
	assert.Equal(t, reports.ForceOptions, items[0].ForceCode)

	forced := ValueIn("name", []string{"monitor"}, ValueInOptions{
		ForceCode:        reports.ForceOptions,
		AllowExtraValues: true,
	})(pairs(map[string]string{"name": "moniter"}))
	require.Len(t, forced, 1)
	assert.Equal(t, reports.SeverityWarning, forced[0].Severity)
}

func TestValueInAcceptsNormalized(t *testing.T) {
	items := ValueIn("enabled", []string{"true"}, ValueInOptions{})(pairs(map[string]string{"enabled": "TRUE"}))
	assert.Empty(t, items)
}

func TestIsRequired(t *testing.T) {
	assert.Empty(t, IsRequired("name", "resource operation")(pairs(map[string]string{"name": "x"})))

	items := IsRequired("name", "resource operation")(pairs(map[string]string{}))
	require.Len(t, items, 1)
	assert.Equal(t, reports.RequiredOptionPayload{
		OptionNames: []string{"name"},
		OptionType:  "resource operation",
	}, items[0].Payload)
}

func TestMutuallyExclusive(t *testing.T) {
	validator := MutuallyExclusive([]string{"interval-origin", "start-delay"}, "resource operation")

	assert.Empty(t, validator(pairs(map[string]string{"start-delay": "1"})))
	items := validator(pairs(map[string]string{"start-delay": "1", "interval-origin": "2"}))
	require.Len(t, items, 1)
	assert.Equal(t, reports.MutuallyExclusiveOptions, items[0].Code)
}

func TestNamesIn(t *testing.T) {
	items := NamesIn([]string{"a", "b"}, []string{"b", "z", "c"}, "thing", reports.ForceOptions, false)

	require.Len(t, items, 1)
	assert.Equal(t, []string{"c", "z"}, items[0].Payload.(reports.InvalidOptionsPayload).OptionNames)
	assert.True(t, items[0].Forceable)
}

func TestID(t *testing.T) {
	tests := []struct {
		id      string
		code    reports.Code
		char    string
		isFirst bool
	}{
		{id: "valid_id-1.x"},
		{id: "", code: reports.EmptyID},
		{id: "1abc", code: reports.InvalidID, char: "1", isFirst: true},
		{id: "a#b", code: reports.InvalidID, char: "#", isFirst: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			item := ID(tt.id, "operation id")
			if tt.code == "" {
				assert.Nil(t, item)
				return
			}
			require.NotNil(t, item)
			assert.Equal(t, tt.code, item.Code)
			if tt.code == reports.InvalidID {
				payload := item.Payload.(reports.InvalidIDPayload)
				assert.Equal(t, tt.char, payload.InvalidCharacter)
				assert.Equal(t, tt.isFirst, payload.IsFirstChar)
			}
		})
	}
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "nodes-1", SanitizeID("nodes-1"))
	assert.Equal(t, "ab", SanitizeID("1-a#b"))
	assert.Equal(t, "", SanitizeID("123"))
}
