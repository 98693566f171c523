package stringtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/glyphreel/stringtest"
)

func TestJoinLF(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input []string
		want  string
	}{
		"no rows": {
			input: nil,
			want:  "",
		},
		"single row": {
			input: []string{"██"},
			want:  "██",
		},
		"multiple rows": {
			input: []string{"██", "░░", "⠀⠀"},
			want:  "██\n░░\n⠀⠀",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stringtest.JoinLF(tc.input...))
		})
	}
}

func TestInput(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"empty string": {
			input: "",
			want:  "",
		},
		"single line with both newlines": {
			input: "\nhello\n",
			want:  "hello",
		},
		"multi-line with common indent tabs": {
			input: "\n\t██\n\t░░\n",
			want:  "██\n░░",
		},
		"multi-line with varying indent": {
			input: "\n    line1\n      indented\n    line3",
			want:  "line1\n  indented\nline3",
		},
		"empty lines are kept": {
			input: "\n\tline1\n\n\tline3",
			want:  "line1\n\nline3",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stringtest.Input(tc.input))
		})
	}
}

func TestGrid(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "██\n██\n██", stringtest.Grid('█', 2, 3))
	assert.Empty(t, stringtest.Grid('█', 2, 0))
}
