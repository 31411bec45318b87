package handler

import (
	"net/http"

	"github.com/artefactventures/artefact-mcp/internal/api/handler/router"
)

// MCP mounts the streamable-HTTP MCP endpoint. The transport handler owns
// session negotiation; GET serves the SSE stream, POST carries JSON-RPC
// messages and DELETE terminates a session.
func MCP(mcpHandler http.Handler) []router.Route {
	routes := make([]router.Route, 0, 3)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		routes = append(routes, router.Route{
			Path:    "/mcp",
			Method:  method,
			Handler: mcpHandler,
		})
	}
	return routes
}
