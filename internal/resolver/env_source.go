package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vvka-141/dbpool/internal/logging"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

// EnvSource reads the URL verbatim from an environment variable, after
// merging dotenv files into the process environment.
//
// Dotenv files never override variables already set in the process, and a
// missing file is not an error.
type EnvSource struct {
	variable string
	files    []string
	logger   poolcache.Logger

	load   func(filenames ...string) error
	lookup func(key string) (string, bool)
}

// NewEnvSource creates an env source reading variable (DefaultEnvVariable when
// empty). With no files, ".env" in the working directory is loaded.
func NewEnvSource(variable string, files []string, logger poolcache.Logger) *EnvSource {
	if variable == "" {
		variable = poolcache.DefaultEnvVariable
	}
	if len(files) == 0 {
		files = []string{".env"}
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &EnvSource{
		variable: variable,
		files:    files,
		logger:   logger,
		load:     godotenv.Load,
		lookup:   os.LookupEnv,
	}
}

func (s *EnvSource) Name() string { return SourceEnv }

// Resolve returns the variable's value without validating its shape.
// An unset or blank variable is reported as EnvUrlMissing.
func (s *EnvSource) Resolve(context.Context) poolcache.Outcome {
	s.loadFiles()

	value, ok := s.lookup(s.variable)
	if !ok || strings.TrimSpace(value) == "" {
		return poolcache.Failure(poolcache.KindEnvURLMissing, SourceEnv,
			fmt.Errorf("%s is not set", s.variable))
	}
	return poolcache.Success(poolcache.ConnectionURL(value))
}

// loadFiles loads each dotenv file on its own so one missing file does not
// prevent the others from loading.
func (s *EnvSource) loadFiles() {
	for _, file := range s.files {
		err := s.load(file)
		switch {
		case err == nil:
			s.logger.Verbose("Loaded environment from %s", file)
		case errors.Is(err, fs.ErrNotExist):
		default:
			s.logger.Info("Warning: ignoring %s: %v", file, err)
		}
	}
}
