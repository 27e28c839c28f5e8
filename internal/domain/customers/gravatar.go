package customers

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// GravatarURL builds the avatar URL the portal shows next to the profile.
// Unknown addresses fall back to gravatar's identicon.
func GravatarURL(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=identicon", hash, size)
}
