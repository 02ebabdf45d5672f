// Package sheets loads the published dam-levels spreadsheet over HTTP and
// caches built snapshots.
package sheets

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveCSVURL turns any commonly shared Google Sheets link into a CSV
// endpoint. Published "output=csv" links and direct "format=csv" exports
// pass through unchanged. Share links are rewritten to the export
// endpoint, preserving a gid query parameter when one names a tab. The
// function never fails: anything it cannot rewrite comes back unchanged
// and is left for the loader to reject.
func ResolveCSVURL(link string) string {
	u := strings.TrimSpace(link)
	if u == "" {
		return ""
	}

	if strings.Contains(u, "output=csv") || strings.Contains(u, "format=csv") {
		return u
	}

	// Share links carry the document ID in the path segment after "/d/":
	// https://docs.google.com/spreadsheets/d/<ID>/edit?gid=0#gid=0
	parts := strings.Split(u, "/")
	if len(parts) < 6 || parts[5] == "" {
		return u
	}
	docID := parts[5]

	var gid string
	if parsed, err := url.Parse(u); err == nil {
		gid = parsed.Query().Get("gid")
	}

	if gid != "" {
		return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", docID, gid)
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", docID)
}
