package duration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	unitRegex = regexp.MustCompile(`^(\d+)([dw])$`)

	ErrInvalidFormat = errors.New("invalid duration format")
)

// Parse accepts Go duration syntax ("90m", "36h") plus whole days and
// weeks ("7d", "2w"), the units claim lifetimes are usually written in.
func Parse(s string) (time.Duration, error) {
	if s == "" {
		return 0, ErrInvalidFormat
	}

	if m := unitRegex.FindStringSubmatch(s); m != nil {
		value, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidFormat, s)
		}
		day := 24 * time.Hour
		if m[2] == "w" {
			return time.Duration(value) * 7 * day, nil
		}
		return time.Duration(value) * day, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFormat, s)
	}
	return d, nil
}

// MustParse parses s and panics if parsing fails.
func MustParse(s string) time.Duration {
	d, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("duration: parse error: %v", err))
	}
	return d
}
