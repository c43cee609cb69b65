// btkconv converts J3D texture matrix animations (BTK) to and from
// editable JSON or YAML documents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "decode", "d":
		err = cmdDecode(args)
	case "encode", "e":
		err = cmdEncode(args)
	case "convert", "c":
		err = cmdConvert(args)
	case "info":
		err = cmdInfo(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`btkconv - J3D texture matrix animation (BTK) converter

Usage:
  btkconv <command> [options]

Commands:
  decode <file.btk> [output]        Write a BTK file as a JSON/YAML document
  encode <file.json> [output.btk]   Build a BTK file from a document
  convert <file>                    Decode or encode, chosen by file contents
  info <file.btk>                   Show header and curve statistics
  config [--save]                   Print (or save) the effective configuration

Common options:
  -c, --config <path>   Config file (default ./btkconv.yaml or user config dir)
  -f, --format <fmt>    Document format: json or yaml
      --indent <n>      Document indent width
  -d, --debug           Enable debug logging
      --log-file <path> Also write logs to a rotating file

An output of "-" writes to stdout.

Examples:
  btkconv decode sea.btk
  btkconv decode -f yaml sea.btk sea.yaml
  btkconv encode sea.json sea_new.btk
  btkconv convert sea.btk`)
}
