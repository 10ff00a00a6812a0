// xcdr-encode serializes a sample described by a type document into XCDR2.
//
// The type document is YAML or JSON (with comments) declaring the types. The value
// document holds the sample as a mapping by member name, in YAML or JSON:
//
//	xcdr-encode --types shapes.yaml --type Shape --value sample.yaml --format hex
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/xcdr"
	"github.com/oy3o/xcdr/dynamic"
	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	types       string
	typeName    string
	value       string
	byteOrder   string
	format      string
	encapsulate bool
	verbose     bool
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("xcdr-encode", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.types, "types", "", "type document (YAML, or JSON with comments)")
	flagSet.StringVar(&opts.typeName, "type", "", "type of the sample (default: the only declared type)")
	flagSet.StringVar(&opts.value, "value", "", "value document (YAML or JSON)")
	flagSet.StringVar(&opts.byteOrder, "byte-order", "little", "little or big")
	flagSet.StringVar(&opts.format, "format", "hex", "output: hex, raw, size or text")
	flagSet.BoolVar(&opts.encapsulate, "encapsulate", false, "prefix the encapsulation header")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.types == "" || opts.value == "" {
		return fmt.Errorf("--types and --value are required")
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	dynamic.SetLogger(logger)

	enc, err := encoding(opts.byteOrder)
	if err != nil {
		return err
	}

	reg, err := types.LoadFile(opts.types)
	if err != nil {
		return err
	}
	t, err := pick(reg, opts.typeName)
	if err != nil {
		return err
	}

	data, err := loadValue(opts.value)
	if err != nil {
		return err
	}
	v, err := dynamic.FromNative(t, data)
	if err != nil {
		return err
	}
	logger.Debug("sample loaded", zap.String("type", t.Name()), zap.Stringer("value", v))

	e := dynamic.NewEncoder(enc).WithEncapsulation(opts.encapsulate)
	switch opts.format {
	case "size":
		n, err := e.Size(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, strconv.Itoa(n))
		return err
	case "text":
		_, err := fmt.Fprintln(stdout, v.String())
		return err
	case "hex", "raw":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	out, err := e.Marshal(v)
	if err != nil {
		return err
	}
	logger.Debug("sample encoded", zap.Int("bytes", len(out)), zap.Stringer("encoding", enc))
	if opts.format == "raw" {
		_, err = stdout.Write(out)
		return err
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(out))
	return err
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func encoding(order string) (xcdr.Encoding, error) {
	switch strings.ToLower(order) {
	case "little", "le":
		return xcdr.XCDR2LE, nil
	case "big", "be":
		return xcdr.XCDR2BE, nil
	}
	return xcdr.Encoding{}, fmt.Errorf("unknown byte order %q", order)
}

// pick resolves the sample type. Without a name the document must declare exactly one type.
func pick(reg *types.Registry, name string) (types.Type, error) {
	if name != "" {
		return reg.MustLookup(name)
	}
	names := reg.Names()
	if len(names) != 1 {
		return nil, fmt.Errorf("--type is required, the document declares %s", strings.Join(names, ", "))
	}
	t, _ := reg.Lookup(names[0])
	return t, nil
}

func loadValue(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		raw = jsonc.ToJSON(raw)
	}
	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "malformed value document")
	}
	return data, nil
}
