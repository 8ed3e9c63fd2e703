// Package ws serves live chart updates over a WebSocket.
//
// Each text frame from the browser is a filter:
//
//	{"countries": ["USA"], "year_min": 1990, "year_max": 2000}
//
// Omitted fields fall back to the dataset's full range and every country.
// The hub answers each frame with the recomputed figures:
//
//	{"event": "figures", "session": "<uuid>", "data": { /* same schema as GET /api/v1/charts */ }}
//
// or, for a frame that is not a valid filter:
//
//	{"event": "error", "session": "<uuid>", "error": "..."}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws by the HTTP server.
package ws
