// Package acl is the anti-corruption layer between the manager's REST API
// and the domain.
//
// Manager JSON never leaves this package: responses are decoded into
// unexported DTOs and translated into [domain.Blueprint],
// [domain.Deployment], [domain.Node] and [domain.NodeInstance].
//
// Failures are translated as well:
//   - any non-2xx response becomes a [*domain.HTTPError] carrying the URL,
//     status and the manager's error message
//   - transport failures, including [clients.ErrCircuitOpen] and
//     [clients.ErrMaxRetriesExceeded], become [domain.ErrUnavailable]
//   - an empty node lookup becomes [domain.ErrNotFound]
//
// [NewRestClient] builds the authenticated HTTP client shared by the REST
// API calls and the file server downloads of a context.
package acl
