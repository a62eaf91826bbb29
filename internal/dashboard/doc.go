// Package dashboard provides an HTTP client for the biodiversity dashboard API.
//
// # Overview
//
// The dashboard exposes five read-only, paginated collections:
//
//   - GET /api/records: field observations
//   - GET /api/traits: measurable species traits
//   - GET /api/biomes: climatic regions
//   - GET /api/species: tracked taxa
//   - GET /api/ecosystems: species communities within a biome
//
// Every collection accepts the same query parameters and answers with the
// same envelope:
//
//	GET /api/species?q=lince&page=0&pageSize=25&sortBy=commonName&sortOrder=asc
//
//	{"items": [...], "page": 0, "pageSize": 25, "total": 132}
//
// Pages are zero-based. sortBy and sortOrder are only sent when a sort is
// selected.
//
// # Client Usage
//
//	client, err := dashboard.NewClient("http://127.0.0.1:3000")
//	if err != nil {
//		return err
//	}
//	species := dashboard.NewLister[dashboard.Species](client, dashboard.ResourceSpecies)
//	page, err := species.Fetch(ctx, paging.Request{Query: "lince", PageSize: 25})
//
// Lister implements paging.Fetcher, which is all the list controller needs.
//
// # Error Handling
//
// Responses with status >= 400 become *APIError. When the body carries
// {"error": "..."} or {"message": "..."} that text becomes the error
// message, so it can be shown in the table's error banner as is. Transport
// and decode failures are wrapped with fmt.Errorf:
//
//   - "list species: execute request: dial tcp: connection refused"
//   - "list species: database unavailable"
//   - "list species: decode response: unexpected EOF"
//
// # Timestamps
//
// Timestamps stay strings on the wire types. ParsedObservedAt and
// ParsedUpdatedAt accept RFC3339, "2006-01-02 15:04:05" (local time) and
// plain dates; anything else parses to the zero time.
//
// # Thread Safety
//
// Client and Lister are safe for concurrent use.
package dashboard
