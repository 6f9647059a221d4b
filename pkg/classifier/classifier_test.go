package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	keywords = []string{"course", "cpe", "training", "credit hours"}
	titles   = []string{"cpa", "enrolled agent", "financial planner"}
)

func TestIsDomainQuery(t *testing.T) {
	c := New(keywords, titles)

	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{"course keyword", "What courses cover divorce taxation?", true},
		{"keyword uppercase", "Do you offer CPE credits?", true},
		{"professional title", "I'm a CPA looking for ethics hours", true},
		{"multi-word title", "courses for an enrolled agent", true},
		{"substring not word boundary", "discourse analysis", true},
		{"off-domain", "What's the weather today?", false},
		{"empty message", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsDomainQuery(tt.message))
		})
	}
}

func TestNewSkipsBlankKeywords(t *testing.T) {
	c := New([]string{"", "  ", "cpe"})
	assert.True(t, c.IsDomainQuery("cpe hours"))
	assert.False(t, c.IsDomainQuery("anything else"))
}
