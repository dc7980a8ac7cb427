package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectImageURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"drive file link", "https://drive.google.com/file/d/ABC123/view", "https://drive.google.com/uc?export=view&id=ABC123"},
		{"drive file link with query", "https://drive.google.com/file/d/ABC123/view?usp=sharing", "https://drive.google.com/uc?export=view&id=ABC123"},
		{"drive open link", "https://drive.google.com/open?id=XYZ789", "https://drive.google.com/uc?export=view&id=XYZ789"},
		{"relative path", "/media/x.png", "http://localhost:8000/media/x.png"},
		{"relative path without slash", "media/x.png", "http://localhost:8000/media/x.png"},
		{"absolute url", "https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"empty", "", PlaceholderImageURL},
		{"blank", "   ", PlaceholderImageURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DirectImageURL(tc.in, "http://localhost:8000"))
		})
	}
}

func TestDirectImageURL_TrailingSlashBase(t *testing.T) {
	assert.Equal(t, "http://api.local/media/x.png", DirectImageURL("/media/x.png", "http://api.local/"))
}
