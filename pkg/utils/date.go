package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses "HH:MM" or "HH:MM:SS" into its components.
func ParseClock(value string) (hour, minute, second uint, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("invalid clock value %q", value)
	}

	limits := []uint64{23, 59, 59}
	values := make([]uint, 3)
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil || v > limits[i] {
			return 0, 0, 0, fmt.Errorf("invalid clock value %q", value)
		}
		values[i] = uint(v)
	}

	return values[0], values[1], values[2], nil
}

func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}
