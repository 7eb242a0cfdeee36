// Package pkgerror defines shared error types used across the application.
//
// Errors carry a user-facing message, a high-level type and a stable code so
// handlers can map them to HTTP status codes at the edge. Validation errors may
// also carry per-field reasons, which are rendered next to the message.
package pkgerror
