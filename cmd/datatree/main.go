// Package main provides the CLI entrypoint for datatree.
//
// datatree loads composition schemas (YAML or HCL) and:
//   - checks them, printing diagnostics
//   - reports which fields each type injects from its nodes
//   - constructs instances from command-line values
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"datatree/catalog"
	"datatree/internal/schema"
	"datatree/tree"
)

const usage = `usage: datatree [-v] <command> [flags] FILE ...

commands:
  check FILE                         validate and build a schema
  inspect [-deep] FILE TYPE          print the injected fields of TYPE
  new [-call NODE] [-dump] FILE TYPE [name=value ...]
                                     construct an instance of TYPE
`

var errUsage = errors.New("invalid usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("datatree", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	verbose := global.Bool("v", false, "enable debug logging")

	if err := global.Parse(args); err != nil {
		return 2
	}

	log := zap.NewNop()

	if *verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}

		log = dev
	}

	defer func() { _ = log.Sync() }()

	tree.SetLogger(log)

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error

	switch rest[0] {
	case "check":
		err = runCheck(rest[1:], stdout, log)
	case "inspect":
		err = runInspect(rest[1:], stdout, stderr, log)
	case "new":
		err = runNew(rest[1:], stdout, stderr, log)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		fmt.Fprint(stderr, usage)

		return 2
	}

	switch {
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func runCheck(args []string, stdout io.Writer, log *zap.Logger) error {
	if len(args) != 1 {
		return errUsage
	}

	f, err := schema.LoadFile(args[0])
	if err != nil {
		return err
	}

	diags := schema.Validate(f)
	for _, d := range diags.All() {
		fmt.Fprintf(stdout, "%s: %s\n", d.Severity, d)
	}

	if diags.HasErrors() {
		return fmt.Errorf("%s: %d error(s)", args[0], len(diags.Errors))
	}

	reg, err := schema.Build(f, schema.WithLogger(log))
	if err != nil {
		return err
	}

	for _, name := range reg.Names() {
		t, err := reg.Type(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(stdout, "%s %s\n", name, t.Catalog())
	}

	fmt.Fprintf(stdout, "ok: %d type(s)\n", len(reg.Names()))

	return nil
}

func runInspect(args []string, stdout, stderr io.Writer, log *zap.Logger) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)

	deep := fs.Bool("deep", false, "follow injected fields to their origin")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() != 2 {
		return errUsage
	}

	t, err := loadType(fs.Arg(0), fs.Arg(1), log)
	if err != nil {
		return err
	}

	if *deep {
		fmt.Fprint(stdout, t.Injections().DeepString())
	} else {
		fmt.Fprint(stdout, t.Injections().String())
	}

	fmt.Fprintln(stdout)

	return nil
}

func runNew(args []string, stdout, stderr io.Writer, log *zap.Logger) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(stderr)

	call := fs.String("call", "", "call the named node field and print the result")
	dump := fs.Bool("dump", false, "dump the instance values")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() < 2 {
		return errUsage
	}

	t, err := loadType(fs.Arg(0), fs.Arg(1), log)
	if err != nil {
		return err
	}

	values, err := parseValues(fs.Args()[2:])
	if err != nil {
		return err
	}

	inst, err := t.New(values)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, inst)

	if *dump {
		spew.Fdump(stdout, inst.Values())
	}

	if *call != "" {
		out, err := inst.Call(*call, nil)
		if err != nil {
			return err
		}

		fmt.Fprintf(stdout, "%s() = %v\n", *call, out)
	}

	return nil
}

func loadType(path, name string, log *zap.Logger) (*tree.Type, error) {
	f, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}

	reg, err := schema.Build(f, schema.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return reg.Type(name)
}

// parseValues parses name=value pairs; values are YAML scalars or flow
// collections.
func parseValues(pairs []string) (catalog.Args, error) {
	out := make(catalog.Args, len(pairs))

	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", p)
		}

		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("value of %s: %w", name, err)
		}

		out[name] = v
	}

	return out, nil
}
