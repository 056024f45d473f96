package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into a one-line status for the footer.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case domain.KindNotFound:
			switch {
			case strings.Contains(oe.Op, "workspacefinder"):
				return "Workspace not found"
			case strings.Contains(oe.Op, "yamlbakefile"):
				return "Bakefile not found" + inFile(oe.Path)
			case strings.Contains(oe.Op, "registry.to_base"):
				return "Unknown unit (declare it in a bakefile)"
			}
			return "Not found"

		case domain.KindUnknownPrefix:
			return "Unknown metric prefix" + inFile(oe.Path)

		case domain.KindInvalidUnitRelation:
			if errors.Is(err, domain.ErrUnknownPrefix) {
				return "Unknown metric prefix" + inFile(oe.Path)
			}
			return "Invalid unit definition" + inFile(oe.Path)

		case domain.KindConflictingDefinition:
			return "Conflicting unit definitions" + inFile(oe.Path)

		case domain.KindCyclicDefinition:
			return "Units defined in a cycle" + inFile(oe.Path)

		case domain.KindNotConvertible:
			return "No metric equivalent for that unit"

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}
			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML at " + base + " line " + line
			}
			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config" + inFile(oe.Path)

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

func inFile(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	return " in " + filepath.Base(path)
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
