// Package db opens bounded connection pools for resolved connection URLs and
// runs the resolve-then-open pipeline behind poolcache.Cache.
package db

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// Driver names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

var errInvalidPostgresURL = errors.New("malformed postgres connection url")

// Drivers maps URL schemes to the driver that opens them.
type Drivers struct {
	byScheme map[string]poolcache.Driver
}

// NewDrivers registers each driver under all of its schemes. Later drivers
// replace earlier ones for a shared scheme.
func NewDrivers(drivers ...poolcache.Driver) *Drivers {
	r := &Drivers{byScheme: make(map[string]poolcache.Driver)}
	for _, d := range drivers {
		for _, scheme := range d.Schemes() {
			r.byScheme[strings.ToLower(scheme)] = d
		}
	}
	return r
}

// DefaultDrivers returns the MySQL and PostgreSQL drivers.
func DefaultDrivers(connectTimeout time.Duration, logger poolcache.Logger) *Drivers {
	return NewDrivers(
		NewMySQLDriver(connectTimeout, logger),
		NewPostgresDriver(connectTimeout, logger),
	)
}

// Lookup returns the driver registered for scheme.
func (r *Drivers) Lookup(scheme string) (poolcache.Driver, error) {
	if d, ok := r.byScheme[strings.ToLower(scheme)]; ok {
		return d, nil
	}
	if scheme == "" {
		return nil, fmt.Errorf("connection url has no scheme (supported: %s): %w",
			strings.Join(r.Schemes(), ", "), poolcache.ErrUnsupportedScheme)
	}
	return nil, fmt.Errorf("scheme %q (supported: %s): %w",
		scheme, strings.Join(r.Schemes(), ", "), poolcache.ErrUnsupportedScheme)
}

// Schemes lists the registered schemes in sorted order.
func (r *Drivers) Schemes() []string {
	schemes := make([]string, 0, len(r.byScheme))
	for s := range r.byScheme {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	return schemes
}
