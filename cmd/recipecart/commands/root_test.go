package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"search", "show", "recipe", "cart", "authorize"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestArgumentValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"search needs a query", []string{"search"}},
		{"show needs a label", []string{"show"}},
		{"recipe takes one url", []string{"recipe"}},
		{"cart takes one url", []string{"cart", "a", "b"}},
		{"authorize takes no args", []string{"authorize", "now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)
			defer rootCmd.SetArgs(nil)

			err := rootCmd.ExecuteContext(context.Background())
			assert.Error(t, err)
		})
	}
}
