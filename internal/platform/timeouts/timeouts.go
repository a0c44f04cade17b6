// Package timeouts holds the deadlines shared by the notation binaries.
package timeouts

import "time"

// GRPCDial caps the wait for the notation server to accept a connection and
// report healthy.
const GRPCDial = 2 * time.Second

// GRPCRequest caps a single call from the MCP bridge to the notation server.
const GRPCRequest = 2 * time.Second

// Shutdown bounds a graceful gRPC stop before in-flight calls are cut off.
const Shutdown = 5 * time.Second
