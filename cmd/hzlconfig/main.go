// hzlconfig compiles a Hazelnet bus configuration file (JSON, YAML or
// TOML) into the hardcoded binary and C source artifacts parsed by the
// embedded Client and Server libraries.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/hazelnet-bus/hzlconfig/pkg/compile"
	"github.com/hazelnet-bus/hzlconfig/pkg/record"
)

func main() {
	if err := run(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func run() error {
	defaults := compile.DefaultOptions()

	flags := pflag.NewFlagSet("hzlconfig", pflag.ContinueOnError)
	outDir := flags.StringP("out", "o", defaults.OutputDir,
		"output directory (relative paths resolve against the input file's directory)")
	endianness := flags.StringP("endianness", "e", "little",
		"byte order of multi-byte fields: little, big or native")
	paddingStr := flags.StringP("padding", "p", "0xAA",
		"fill value for reserved layout bytes")
	quiet := flags.BoolP("quiet", "q", false, "only log warnings and errors")
	verbose := flags.BoolP("verbose", "v", false, "log every artifact written")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hzlconfig [flags] <configuration file>\n\nFlags:\n%s", flags.FlagUsages())
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected exactly one configuration file, got %d arguments", flags.NArg())
	}

	switch {
	case *quiet:
		logrus.SetLevel(logrus.WarnLevel)
	case *verbose:
		logrus.SetLevel(logrus.DebugLevel)
	}

	order, err := record.ParseByteOrder(*endianness)
	if err != nil {
		return err
	}
	padding, err := strconv.ParseUint(*paddingStr, 0, 8)
	if err != nil {
		return fmt.Errorf("invalid padding value %q: %w", *paddingStr, err)
	}

	_, err = compile.Compile(flags.Arg(0), compile.Options{
		OutputDir: *outDir,
		ByteOrder: order,
		Padding:   byte(padding),
	})
	return err
}
