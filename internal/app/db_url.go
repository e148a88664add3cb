package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL opts the connection into lib/pq's
// disable_prepared_binary_result mode when the config flag asks for it.
// A value already present in the URL wins over the flag.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}
	params := parsed.Query()
	if params.Get("disable_prepared_binary_result") != "" {
		return raw
	}

	params.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = params.Encode()
	return parsed.String()
}

// dbNameFromURL extracts the database name from either DSN form lib/pq
// accepts, for the db.name attribute on traced connections.
func dbNameFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if parsed, err := url.Parse(raw); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimPrefix(parsed.Path, "/"); name != "" {
			return strings.TrimSpace(name)
		}
		return ""
	}

	// Keyword form: "host=... dbname=matchtrack sslmode=...".
	for _, field := range strings.Fields(raw) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key != "dbname" {
			continue
		}
		if name := strings.Trim(value, `"'`); name != "" {
			return name
		}
	}
	return ""
}
