package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"git", "git"},
		{"%", `\%`},
		{"_", `\_`},
		{`\`, `\\`},
		{"100% legit", `100\% legit`},
		{"snake_case", `snake\_case`},
		{`back\slash%mix_ed`, `back\\slash\%mix\_ed`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), "input %q", tt.in)
	}
}
