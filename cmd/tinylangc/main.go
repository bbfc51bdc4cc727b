// Command tinylangc is TinyLang's compiler driver: it reads a program,
// runs it through the full pipeline, and prints a single JSON result
// record describing what happened.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/tinylang/tlc/driver"
	"github.com/tinylang/tlc/source"
)

func main() {
	var filePath string
	var stdinContent string
	var runFlag bool
	var cxx string
	var timeoutSeconds int

	app := cli.NewApp()
	app.Name = "tinylangc"
	app.Usage = "compile and optionally run a TinyLang program"
	app.Version = "0.1.0"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "file",
			Usage:       "path to a .tl source file",
			Destination: &filePath,
		},
		cli.StringFlag{
			Name:        "stdin",
			Usage:       "content to feed the compiled program's standard input when run with --run",
			Destination: &stdinContent,
		},
		cli.BoolFlag{
			Name:        "run",
			Usage:       "execute the compiled program and capture its output",
			Destination: &runFlag,
		},
		cli.StringFlag{
			Name:        "cxx",
			Usage:       "native compiler invoked on the emitted C++",
			Value:       "g++",
			Destination: &cxx,
		},
		cli.IntFlag{
			Name:        "timeout",
			Usage:       "seconds the compiled program may run before being killed",
			Value:       5,
			Destination: &timeoutSeconds,
		},
	}

	app.Action = func(c *cli.Context) error {
		return run(filePath, stdinContent, runFlag, cxx, timeoutSeconds)
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(filePath, stdinContent string, shouldRun bool, cxx string, timeoutSeconds int) error {
	if filePath == "" {
		return cli.NewExitError("--file is required", 2)
	}

	file, err := loadSource(filePath)
	if err != nil {
		printResult(&driver.Result{
			Success: false,
			CompileErrors: []driver.CompileError{{
				Phase:   driver.PhaseFile,
				Message: err.Error(),
			}},
		})
		return nil
	}

	result := driver.Compile(file, driver.Options{
		Run:     shouldRun,
		Stdin:   stdinContent,
		CXX:     cxx,
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	})

	printResult(result)
	return nil
}

func loadSource(filePath string) (*source.File, error) {
	b, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return source.NewFile(filePath, string(b)), nil
}

func printResult(result *driver.Result) {
	if result.CompileErrors == nil {
		result.CompileErrors = []driver.CompileError{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}
