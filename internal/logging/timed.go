package logging

import (
	"time"

	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// Timed runs fn and logs how long it took under label at verbose level.
// The result and error of fn are returned unchanged.
func Timed[T any](logger poolcache.Logger, label string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	elapsed := time.Since(start).Round(time.Microsecond)
	if err != nil {
		logger.Verbose("%s: %v (failed)", label, elapsed)
	} else {
		logger.Verbose("%s: %v", label, elapsed)
	}
	return v, err
}
