package push

import (
	"regexp"
	"strings"
)

// Token labels accepted in the bracket form, e.g. ExponentPushToken[...].
var tokenLabels = []string{"ExponentPushToken[", "ExpoPushToken["}

// uuidToken matches the lowercase dashed 8-4-4-4-12 form.
var uuidToken = regexp.MustCompile(`^[a-z\d]{8}-[a-z\d]{4}-[a-z\d]{4}-[a-z\d]{4}-[a-z\d]{12}$`)

// IsValidToken reports whether token looks like an Expo push token.
// Only the format is checked; a valid token may still be unregistered.
func IsValidToken(token string) bool {
	if strings.HasSuffix(token, "]") {
		for _, label := range tokenLabels {
			if strings.HasPrefix(token, label) {
				return true
			}
		}
	}
	return uuidToken.MatchString(token)
}
