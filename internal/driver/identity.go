package driver

import (
	"fmt"
)

// Synthetic users are derived deterministically from the acting-user
// handle so identities resolve to the same rows across runs. The
// digest is a fixed bcrypt hash of "test".
const passwordDigest = "$2a$10$Tq3wrGeC0xtgzuxqOlc3v.07VTUvxvwI70kuoVihoO2cE5qj7ooka"

// Username returns the synthetic username for an acting-user handle
func Username(uid int64) string {
	return fmt.Sprintf("user%d", uid)
}

// Email returns the synthetic email for an acting-user handle
func Email(uid int64) string {
	return fmt.Sprintf("user%d@example.com", uid)
}

// SessionToken returns the synthetic session token for an acting-user handle
func SessionToken(uid int64) string {
	return fmt.Sprintf("token%d", uid)
}

// RssToken returns the synthetic RSS token for an acting-user handle
func RssToken(uid int64) string {
	return fmt.Sprintf("rsstoken%d", uid)
}

// MailingListToken returns the synthetic mailing-list token for an
// acting-user handle
func MailingListToken(uid int64) string {
	return fmt.Sprintf("mtok%d", uid)
}

// keystoreKey builds a per-user counter key such as
// "user:42:stories_submitted".
func keystoreKey(uid int64, counter string) string {
	return fmt.Sprintf("user:%d:%s", uid, counter)
}
