package imagestore

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ContentTypeJPEG is the content type images are stored with by default.
const ContentTypeJPEG = "image/jpeg"

// BuildKey constructs the object key for a new image under the user's path.
func BuildKey(userID string) string {
	return fmt.Sprintf("users/%s/images/%s.jpg", userID, uuid.New())
}

// ParseKey extracts the user ID from an object key.
func ParseKey(key string) (userID string, ok bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 || parts[0] != "users" || parts[2] != "images" {
		return "", false
	}
	if !strings.HasSuffix(parts[3], ".jpg") {
		return "", false
	}
	return parts[1], true
}

// objectURL builds the public URL for a stored object.
func objectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// keyFromURL recovers the object key from a URL previously returned by
// objectURL. It fails if the URL does not point into the given bucket.
func keyFromURL(bucket, imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("invalid image URL: %w", err)
	}
	if !strings.HasPrefix(parsed.Host, bucket+".") {
		return "", fmt.Errorf("image URL %q is not in bucket %q", imageURL, bucket)
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	if _, ok := ParseKey(key); !ok {
		return "", fmt.Errorf("image URL %q has an unexpected key layout", imageURL)
	}
	return key, nil
}
