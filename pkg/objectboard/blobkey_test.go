package objectboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlobKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		wantExt  string
	}{
		{name: "jpg extension kept", fileName: "vase.jpg", wantExt: ".jpg"},
		{name: "extension lowercased", fileName: "PHOTO.JPG", wantExt: ".jpg"},
		{name: "no extension", fileName: "README", wantExt: ""},
		{name: "path separators ignored for extension", fileName: "../../etc/passwd.png", wantExt: ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewBlobKey(tt.fileName)

			assert.True(t, strings.HasPrefix(key, BlobNamespace+"/"))
			if tt.wantExt != "" {
				assert.True(t, strings.HasSuffix(key, tt.wantExt), "key %q should end in %q", key, tt.wantExt)
			}

			// Nothing of the user-supplied name survives in the key
			assert.NotContains(t, key, "vase")
			assert.NotContains(t, key, "..")
		})
	}
}

func TestNewBlobKeyIsUnique(t *testing.T) {
	a := NewBlobKey("a.jpg")
	b := NewBlobKey("a.jpg")
	assert.NotEqual(t, a, b)
}

func TestParseImageURL(t *testing.T) {
	key := NewBlobKey("vase.jpg")

	tests := []struct {
		name     string
		imageURL string
		wantKey  string
		wantErr  bool
	}{
		{
			name:     "minio style url",
			imageURL: "http://localhost:9000/heyama-objects/" + key,
			wantKey:  key,
		},
		{
			name:     "memory style url",
			imageURL: "memory://objectboard/" + key,
			wantKey:  key,
		},
		{
			name:     "missing namespace",
			imageURL: "http://localhost:9000/heyama-objects/other/abc.jpg",
			wantErr:  true,
		},
		{
			name:     "empty key after namespace",
			imageURL: "http://localhost:9000/bucket/objects/",
			wantErr:  true,
		},
		{
			name:     "not a url at all",
			imageURL: "garbage",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseImageURL(tt.imageURL)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidImageURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, got)
		})
	}
}
