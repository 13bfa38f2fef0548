// Package httpapi is the client for the central workshop server.
//
// The Client speaks three endpoints: POST /api/sync/batch to deliver queued
// records, GET /api/ping for liveness and server-side counts, and
// POST /api/export/xlsx to render a report workbook. The Monitor turns
// periodic pings into an online flag plus a transition event stream that the
// sync engine consumes.
package httpapi
