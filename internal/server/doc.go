// Package server provides the local JSON API over the villager catalog,
// the have/want collection and the theme preference.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] for path matching and
// dispatches on method itself, so a known path answers 405 for an unregistered
// method while an unknown path is a 404.
//
// # Middleware
//
//   - [WithRequestID] assigns or propagates an X-Request-ID (UUID)
//   - [WithLogging] writes one structured log line per request
//   - [WithRecover] converts a handler panic into a 500
//
// # Endpoints
//
//	GET    /villagers             filtered, ranked or fuzzy listing (see [ParseQuery])
//	GET    /villagers/{id}        one villager by id or name
//	GET    /suggest?q=            search-box suggestions
//	GET    /options               filter dimension values
//	GET    /source                which data tier loaded and its integrity
//	GET    /collection            have and want lists
//	POST   /collection/{id}/have  mark owned
//	POST   /collection/{id}/want  mark wished for
//	DELETE /collection/{id}       stop tracking
//	GET    /stats                 collection insights
//	GET    /theme                 current theme
//	PUT    /theme                 set theme ({"theme":"dark"})
//	POST   /theme/toggle          flip light and dark
//	GET    /healthz               liveness
//
// Errors are JSON objects with a single "error" key.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
