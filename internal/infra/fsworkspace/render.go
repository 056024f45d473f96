package fsworkspace

import (
	"fmt"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
)

// renderTemplate replaces {{key}} placeholders with vars values.
// Missing keys and unclosed or empty placeholders are errors.
func renderTemplate(name, input string, vars map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(input))

	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", templateErr(name, "unclosed placeholder")
		}
		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", templateErr(name, "empty placeholder")
		}
		value, ok := vars[key]
		if !ok {
			return "", templateErr(name, fmt.Sprintf("no value for %q", key))
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

func templateErr(name, msg string) error {
	return &domain.OpError{
		Op:   "fsworkspace.render",
		Kind: domain.KindInvalidConfig,
		Path: name,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrInvalidConfig),
	}
}
