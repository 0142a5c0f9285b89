package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURIComposer_ComposePicURI(t *testing.T) {
	tests := []struct {
		name string
		base string
		in   string
		want string
	}{
		{"replaces placeholder", "https://catalog.example.com", "http://catalogbaseurltobereplaced/images/1.png", "https://catalog.example.com/images/1.png"},
		{"trailing slash on base", "https://catalog.example.com/", "http://catalogbaseurltobereplaced/images/1.png", "https://catalog.example.com/images/1.png"},
		{"absolute uri untouched", "https://catalog.example.com", "https://other.cdn/1.png", "https://other.cdn/1.png"},
		{"empty", "https://catalog.example.com", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewURIComposer(tt.base).ComposePicURI(tt.in))
		})
	}
}
