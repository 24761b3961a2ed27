package imagestore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey_ParseKeyRoundTrip(t *testing.T) {
	key := BuildKey("user-1")
	assert.True(t, strings.HasPrefix(key, "users/user-1/images/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	userID, ok := ParseKey(key)
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)
}

func TestParseKey_RejectsForeignLayouts(t *testing.T) {
	tests := []string{
		"users/user-1/images/a.png",
		"user/user-1/images/a.jpg",
		"users/user-1/a.jpg",
		"users/user-1/images/extra/a.jpg",
		"",
	}
	for _, key := range tests {
		if _, ok := ParseKey(key); ok {
			t.Errorf("ParseKey(%q) unexpectedly succeeded", key)
		}
	}
}

func TestKeyFromURL(t *testing.T) {
	key := BuildKey("user-1")
	url := objectURL("qs-images", "ap-northeast-2", key)

	got, err := keyFromURL("qs-images", url)
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestKeyFromURL_WrongBucket(t *testing.T) {
	url := objectURL("other-bucket", "ap-northeast-2", BuildKey("user-1"))

	_, err := keyFromURL("qs-images", url)
	assert.Error(t, err)
}
