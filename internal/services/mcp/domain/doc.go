// Package domain maps MCP tool calls onto the notation gRPC service.
//
// Each tool validates nothing on its own: expressions travel to the server
// verbatim and server-side failures come back as tool errors carrying the
// server's localized message.
package domain
