package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Faultbox/btkconv/internal/config"
	"github.com/Faultbox/btkconv/internal/logger"
	"github.com/Faultbox/btkconv/pkg/animdoc"
	"github.com/Faultbox/btkconv/pkg/formats"
)

// stdout is where "-" outputs go.
var stdout io.Writer = os.Stdout

// setup parses the subcommand flags, loads config and starts logging.
func setup(fs *pflag.FlagSet, args []string) (*config.Config, error) {
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

func codecOptions() []formats.Option {
	return []formats.Option{formats.WithLogger(logger.Named("btk"))}
}

func cmdDecode(args []string) error {
	fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: btkconv decode <file.btk> [output]")
	}
	return decodeFile(cfg, fs.Arg(0), fs.Arg(1))
}

func cmdEncode(args []string) error {
	fs := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	if _, err := setup(fs, args); err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: btkconv encode <file.json|file.yaml> [output.btk]")
	}
	return encodeFile(fs.Arg(0), fs.Arg(1))
}

func cmdConvert(args []string) error {
	fs := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: btkconv convert <file> [output]")
	}

	input := fs.Arg(0)
	head := make([]byte, 8)
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	n, _ := io.ReadFull(f, head)
	f.Close()

	if formats.IsBTK(head[:n]) {
		return decodeFile(cfg, input, fs.Arg(1))
	}
	return encodeFile(input, fs.Arg(1))
}

func decodeFile(cfg *config.Config, input, output string) error {
	format, err := animdoc.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if output == "" {
		output = replaceExt(input, format.Extension())
	} else if output != "-" {
		// An explicit extension wins over the configured format.
		if f, err := animdoc.FormatFromPath(output); err == nil {
			format = f
		}
	}

	btk, err := formats.ParseBTKFile(input, codecOptions()...)
	if err != nil {
		return err
	}
	doc := animdoc.FromBTK(btk)

	if output == "-" {
		return animdoc.Encode(stdout, doc, format, cfg.Output.Indent)
	}
	if err := animdoc.WriteFile(output, doc, format, cfg.Output.Indent); err != nil {
		return err
	}

	logger.Log.Info("decoded", zap.String("input", input), zap.String("output", output),
		zap.Int("animations", len(btk.Animations)))
	fmt.Fprintf(os.Stderr, "Decoded: %s -> %s (%d animations)\n", input, output, len(btk.Animations))
	return nil
}

func encodeFile(input, output string) error {
	doc, err := animdoc.ReadFile(input)
	if err != nil {
		return err
	}
	btk, err := doc.BTK()
	if err != nil {
		return err
	}

	data, err := formats.EncodeBTK(btk, codecOptions()...)
	if err != nil {
		return err
	}

	if output == "" {
		output = replaceExt(input, ".btk")
	}
	if output == "-" {
		_, err := io.Copy(stdout, bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("writing BTK file: %w", err)
	}

	logger.Log.Info("encoded", zap.String("input", input), zap.String("output", output), zap.Int("bytes", len(data)))
	fmt.Fprintf(os.Stderr, "Encoded: %s -> %s (%d bytes)\n", input, output, len(data))
	return nil
}

func cmdInfo(args []string) error {
	fs := pflag.NewFlagSet("info", pflag.ContinueOnError)
	if _, err := setup(fs, args); err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: btkconv info <file.btk>")
	}

	btk, err := formats.ParseBTKFile(fs.Arg(0), codecOptions()...)
	if err != nil {
		return err
	}
	printInfo(stdout, fs.Arg(0), btk)
	return nil
}

func printInfo(w io.Writer, path string, btk *formats.BTK) {
	stats := btk.Stats()

	fmt.Fprintf(w, "File:        %s\n", path)
	fmt.Fprintf(w, "Loop mode:   %s (%d)\n", btk.LoopMode, uint8(btk.LoopMode))
	fmt.Fprintf(w, "Angle scale: %d (%.6g deg/unit)\n", btk.AngleScale, btk.RotationScale())
	fmt.Fprintf(w, "Duration:    %d frames\n", btk.Duration)
	fmt.Fprintf(w, "Unknown:     0x%08X\n", btk.UnknownAddress)
	fmt.Fprintf(w, "Animations:  %d\n", stats.Animations)
	fmt.Fprintf(w, "Curves:      %d constant, %d keyed (%d keyframes)\n",
		stats.ConstantCurves, stats.KeyedCurves, stats.Keyframes)
	fmt.Fprintln(w)

	for i := range btk.Animations {
		anim := &btk.Animations[i]
		fmt.Fprintf(w, "  [%d] %-20s material %-3d center (%g, %g, %g)\n",
			i, anim.Name, anim.MaterialIndex, anim.Center[0], anim.Center[1], anim.Center[2])
	}
}

func cmdConfig(args []string) error {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	save := fs.Bool("save", false, "Save the effective config to the user config dir")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if *save {
		path, err := cfg.Save()
		if err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved: %s\n", path)
		return nil
	}

	_, err = cfg.WriteTo(stdout)
	return err
}

// replaceExt swaps the extension of path.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
