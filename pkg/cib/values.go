package cib

import (
	"strconv"
	"strings"
)

var timeoutSuffixes = []struct {
	suffix     string
	multiplier int
}{
	{"sec", 1},
	{"min", 60},
	{"hr", 3600},
	{"s", 1},
	{"m", 60},
	{"h", 3600},
}

// TimeoutToSeconds converts a pacemaker time value ("10", "10s", "2min",
// "1h") to seconds. It returns false for values it does not understand.
func TimeoutToSeconds(value string) (int, bool) {
	if n, ok := nonNegativeInt(value); ok {
		return n, true
	}
	for _, s := range timeoutSuffixes {
		if strings.HasSuffix(value, s.suffix) {
			if n, ok := nonNegativeInt(strings.TrimSuffix(value, s.suffix)); ok {
				return n * s.multiplier, true
			}
		}
	}
	return 0, false
}

func nonNegativeInt(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsTrue reports whether value is a pacemaker boolean true
func IsTrue(value string) bool {
	switch strings.ToLower(value) {
	case "true", "on", "yes", "y", "1":
		return true
	}
	return false
}
