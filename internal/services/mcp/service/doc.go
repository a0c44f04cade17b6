// Package service hosts the MCP server that exposes dice notation tools to
// agents over stdio.
package service
