package apiindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKebabCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Alert":                     "alert",
		"AlertGroup":                "alert-group",
		"Date picker":               "date-picker",
		"HTMLElement":               "html-element",
		"  Chip group  ":            "chip-group",
		"Toggle group (deprecated)": "toggle-group-deprecated",
		"Tab2Content":               "tab2-content",
		"already-kebab":             "already-kebab",
		"snake_case_name":           "snake-case-name",
		"":                          "",
	}

	for input, want := range tests {
		require.Equal(t, want, KebabCase(input), "input %q", input)
	}
}
