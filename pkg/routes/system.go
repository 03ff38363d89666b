package routes

import "net/http"

// System collects route groups from the service handlers and builds the
// multiplexer that serves them.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)
	Build() http.Handler
	Groups() []Group
	Routes() []Route
}
