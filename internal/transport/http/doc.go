// Package http contains the HTTP transport layer: chi handlers that parse
// and validate dashboard queries, delegate to the service layer, and render
// JSON responses with RFC 7807 problem details on failure.
package http
