// Command squint statically checks SQLite-flavored SQL against a catalog:
// it resolves names, infers result column types, and reports positioned
// errors without executing anything.
//
// Usage:
//
//	squint check [-schema catalog.yaml] file.sql ...
//	squint repl  [-schema catalog.yaml]
//	squint serve [-l addr] [-schema catalog.yaml] [flags]
package main

import (
	"fmt"
	"os"

	"github.com/squintdb/squint/schema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	var err error
	switch os.Args[1] {
	case "check":
		err = runCheck(os.Args[2:])
	case "repl":
		err = runRepl(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "squint: unknown command %q\n", os.Args[1])
		usage()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "squint: %s\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: squint <check|repl|serve> [options]")
	os.Exit(2)
}

// loadModel loads the catalog from path, or returns an empty catalog when
// no path is given.
func loadModel(path string) (schema.Model, error) {
	if path == "" {
		return schema.NewMemModel(nil), nil
	}
	return schema.LoadFile(path)
}
