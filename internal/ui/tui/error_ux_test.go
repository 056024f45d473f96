package tui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AustinGrey/bake-file/internal/domain"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"workspace missing",
			&domain.OpError{Op: "workspacefinder.findroot", Kind: domain.KindNotFound, Err: domain.ErrNotFound},
			"Workspace not found",
		},
		{
			"bakefile missing",
			&domain.OpError{Op: "yamlbakefile.list", Kind: domain.KindNotFound, Path: "/ws/extra.yaml", Err: domain.ErrNotFound},
			"Bakefile not found in extra.yaml",
		},
		{
			"conflict",
			&domain.OpError{Op: "registry.build", Kind: domain.KindConflictingDefinition, Path: "/ws/bakefile.yaml", Err: domain.ErrConflictingDefinition},
			"Conflicting unit definitions in bakefile.yaml",
		},
		{
			"prefix inside relation",
			&domain.OpError{
				Op:   "registry.build",
				Kind: domain.KindInvalidUnitRelation,
				Err:  fmt.Errorf("units[0]: %w: %w", domain.ErrInvalidUnitRelation, domain.ErrUnknownPrefix),
			},
			"Unknown metric prefix",
		},
		{
			"yaml line",
			&domain.OpError{Op: "yamlbakefile.load", Kind: domain.KindInvalidConfig, Path: "/ws/bakefile.yaml", Err: errors.New("yaml: line 3: did not find expected key")},
			"Invalid YAML at bakefile.yaml line 3",
		},
		{"plain", errors.New("boom"), "Unexpected error (see logs)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := userMessage(tc.err); got != tc.want {
				t.Fatalf("userMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClampString(t *testing.T) {
	if got := clampString("tablespoon", 5); got != "table…" {
		t.Fatalf("unexpected clamp: %q", got)
	}
	if got := clampString("cup", 5); got != "cup" {
		t.Fatalf("unexpected clamp: %q", got)
	}
	if got := clampString("cup", 0); got != "" {
		t.Fatalf("unexpected clamp: %q", got)
	}
}
