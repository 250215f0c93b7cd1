// glbtool is a CLI utility for writing, inspecting and validating GLB files.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/glbforge/internal/config"
	"github.com/Faultbox/glbforge/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "demo":
		cmdDemo(args)
	case "inspect", "info":
		cmdInspect(args)
	case "validate", "check":
		cmdValidate(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`glbtool - GLB (binary glTF 2.0) utility

Usage:
  glbtool <command> [options]

Commands:
  demo [-out dir]              Write triangle, cube, hierarchy and animated samples
  inspect <file.glb>           Show document summary and accessor bounds
  validate <file.glb>...       Check container framing and document structure
  config [-save path]          Print or save the effective configuration

Common options:
  -config path                 Config file (.yaml or .toml)
  -debug                       Enable debug logging
  -log file                    Also write logs to file

Examples:
  glbtool demo -out ./samples -texture-format jpeg
  glbtool inspect samples/cube.glb
  glbtool validate samples/*.glb
  glbtool config -save glbforge.yaml`)
}

// setup parses args with the shared config flags, loads the configuration
// and initialises logging. It exits on error.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	f := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(f)
	if err != nil {
		fatal(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal(err)
	}
	logger.Sugar.Debugf("%s config: %+v", fs.Name(), cfg)
	return cfg
}

// needArgs returns a usage error unless fs has at least n positional args.
func needArgs(fs *flag.FlagSet, n int, usage string) error {
	if fs.NArg() < n {
		return fmt.Errorf("usage: glbtool %s", usage)
	}
	return nil
}

func fatal(err error) {
	logger.Error("command failed", zap.Error(err))
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.String("save", "", "Write the effective configuration to this path")
	asTOML := fs.Bool("toml", false, "Print as TOML instead of YAML")
	cfg := setup(fs, args)
	defer logger.Sync()

	if *save != "" {
		if err := cfg.SaveTo(*save); err != nil {
			fatal(err)
		}
		logger.Info("saved config", zap.String("path", *save))
		fmt.Printf("Saved: %s\n", *save)
		return
	}

	data, err := cfg.Marshal(*asTOML)
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(data)
}
