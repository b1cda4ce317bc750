package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const gravatarBase = "//www.gravatar.com/avatar/"

// GravatarURL builds the avatar reference for an email: 200px, pg-rated,
// mystery-man fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return gravatarBase + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
