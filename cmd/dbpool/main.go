package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/dbpool/internal/cli"
	"github.com/vvka-141/dbpool/pkg/poolcache"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(poolcache.ExitPanic)
		}
	}()

	if os.Getenv("DBPOOL_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(poolcache.ExitCodeForError(err))
	}
}
