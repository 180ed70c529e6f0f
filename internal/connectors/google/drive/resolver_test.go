package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveWebURL(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		link string
		want string
	}{
		{
			name: "web view link takes precedence",
			uri:  "gdrive://files/1abc123",
			link: "https://docs.google.com/document/d/1abc123/edit",
			want: "https://docs.google.com/document/d/1abc123/edit",
		},
		{
			name: "fallback to URI conversion",
			uri:  "gdrive://files/1abc123def456",
			want: "https://drive.google.com/file/d/1abc123def456/view",
		},
		{
			name: "non-gdrive URI returns empty",
			uri:  "https://something-else.com",
			want: "",
		},
		{
			name: "prefix only returns empty",
			uri:  "gdrive://files/",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveWebURL(tt.uri, tt.link))
		})
	}
}

func TestFileURI(t *testing.T) {
	uri := FileURI("abc")
	assert.Equal(t, "gdrive://files/abc", uri)

	id, ok := FileIDFromURI(uri)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = FileIDFromURI("slack://x")
	assert.False(t, ok)
}
