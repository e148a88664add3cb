package app

import "strings"

// Queries recorded on spans are collapsed to a single line and capped so a
// bulk archive insert cannot blow up the trace payload.
const tracedQueryLimit = 512

func formatDBQueryForTrace(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > tracedQueryLimit {
		return flat[:tracedQueryLimit] + "..."
	}
	return flat
}
