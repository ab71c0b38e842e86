package storage

import (
	"net/url"
	"strings"
)

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries an inline password. Passwords belong in the OS keyring, the
// environment, or .pgpass, never on the command line where they leak into
// shell history and process listings.
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			// Unparseable strings fail later validation; nothing to leak here.
			return false
		}
		if u.User != nil {
			if _, isSet := u.User.Password(); isSet {
				return true
			}
		}
		return false
	}

	// DSN format: space-separated key=value pairs.
	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true
		}
	}
	return false
}
