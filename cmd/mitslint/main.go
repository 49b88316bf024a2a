package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/openmits/mitslint/validator"
)

func main() {
	basic := flag.Bool("basic", false, "well-formedness check only")
	asJSON := flag.Bool("json", false, "emit the report as JSON")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mitslint [-basic] [-json] <mits-file>...")
		fmt.Fprintln(os.Stderr, "Reads stdin when no files are given.")
		flag.PrintDefaults()
	}
	flag.Parse()

	sources := flag.Args()
	exitCode := 0

	if len(sources) == 0 {
		if !lintReader("stdin", os.Stdin, *basic, *asJSON) {
			exitCode = 1
		}
		os.Exit(exitCode)
	}

	for _, path := range sources {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		ok := lintReader(path, f, *basic, *asJSON)
		f.Close()
		if !ok {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func lintReader(source string, r io.Reader, basic, asJSON bool) bool {
	data, err := io.ReadAll(r)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", source, err)
	}

	v := validator.New(validator.Config{
		SourceName: source,
		Basic:      basic,
	})
	result := v.ValidateString(context.Background(), string(data))

	if asJSON {
		reporter := validator.JSONReporter{Writer: os.Stdout}
		if err := reporter.Report(result); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
	} else {
		reporter := validator.PrettyReporter{Writer: os.Stdout}
		reporter.Report(source, result)
	}
	return result.Valid
}
