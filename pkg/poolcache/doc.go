// Package poolcache holds the process-wide, lazily established database
// connection pool together with the types shared by every layer that feeds it.
//
// A Cache owns at most one Pool. The first caller of GetOrEstablish runs the
// full pipeline (resolve a connection URL, open the pool); concurrent callers
// wait for that single attempt instead of starting their own. Once a pool is
// Ready it is handed out as-is for the life of the Cache. A failed attempt is
// not cached: the next call starts again from the top of the resolution chain.
//
// The package defines narrow interfaces for the collaborators it depends on:
//   - Establisher: turns a Selector into an open Pool
//   - Resolver: produces a ConnectionURL
//   - SecretStore: fetches a raw secret string
//   - Driver: opens a Pool for a URL scheme
//   - Logger, Metrics: instrumentation
//
// Concrete implementations live in the internal packages of this module.
package poolcache
