// Package network talks to an Onirim game server over HTTP.
//
// # Core Components
//
// Client: one method per server endpoint. NewGame bootstraps a session,
// Board, Status and Prompt fetch the three polled resources, Choice submits
// the player's decision.
//
// # Errors
//
// A response outside the 2xx range is returned as a *StatusError carrying
// the status code and the body exactly as the server wrote it, so callers
// can show the server's own explanation to the player.
//
// # Tracing
//
// Every call runs inside an OpenTelemetry client span and carries an
// X-Request-ID header. Without a registered tracer provider the spans are
// no-ops.
package network
