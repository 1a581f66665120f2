// Package tools contains the MCP tool implementations for filterkit.
package tools

// MIME type constant.
const MimeJSON = "application/json"
