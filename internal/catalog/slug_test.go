package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Parasite", "parasite"},
		{"spaces", "Crash Landing on You", "crash-landing-on-you"},
		{"punctuation", "It's Okay to Not Be Okay!", "it-s-okay-to-not-be-okay"},
		{"non-ascii dropped", "사랑의 불시착 (2019)", "2019"},
		{"collapsed dashes", "A  --  B", "a-b"},
		{"all symbols", "###", "untitled"},
		{"empty", "", "untitled"},
		{"digits kept", "Train to Busan 2", "train-to-busan-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
