// Package manager reports on pools opened by the db package.
//
// Describe runs a single dialect-specific query to learn the server version,
// current database and session user, and snapshots pool occupancy:
//
//	info, err := manager.New().Describe(ctx, pool)
//	fmt.Printf("%s %s (%d/%d connections open)\n",
//		info.Driver, info.Version, info.Stats.Open, info.Stats.MaxConns)
//
// Pools from other drivers are rejected with ErrUnsupportedPool.
package manager
