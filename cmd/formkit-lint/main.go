package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-formkit/internal/lint"
)

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths or globs...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint formkit definition files.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{"pkg/form/definitions/**/*.yaml"}
	}

	paths, err := lint.Paths(patterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint: %v\n", err)
		os.Exit(1)
	}

	var violations []lint.Violation
	for _, path := range paths {
		linted, err := lint.File(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintln(os.Stderr, v.String())
		}
		os.Exit(1)
	}
}
