package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"lowercases and trims", "  Resume-Writing ", "resume-writing", false},
		{"rejects spaces", "resume writing", "", true},
		{"rejects too short", "ab", "", true},
		{"accepts digits and hyphens", "go-101", "go-101", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSlug(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "resume-writing-101", Slugify("Resume Writing 101"))
	assert.Equal(t, "interview-prep", Slugify("  Interview?? Prep!  "))

	long := Slugify(strings.Repeat("repeated ", 12))
	assert.LessOrEqual(t, len(long), 60)
	assert.False(t, strings.HasSuffix(long, "-"))
}
