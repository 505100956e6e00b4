// Package cli wires herscat's command-line surface: flag parsing, logger
// setup, and dispatch into the proxy/supervisor/stress packages. It is the
// only package that talks to cobra.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "herscat",
	Short: "A proxy stress tester",
	Long: `herscat drives high-volume synthetic traffic through a fleet of
local SOCKS5 endpoints backed by VLESS/Trojan/Shadowsocks proxy configs.

Quick start:
  herscat --url "vless://..." --mode download
  herscat --list proxies.txt --mode tcp-flood --targets 10.0.0.1:9000 --duration 60s`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runStress,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.String("url", "", "single proxy URI (vless://, trojan://, ss://); mutually exclusive with --list")
	flags.String("list", "", "path to a newline-delimited file of proxy URIs; mutually exclusive with --url")
	flags.Duration("duration", 0, "run duration (0 = infinite)")
	flags.Int("instances", 1, "number of proxy-client instances to spawn")
	flags.Int("base-port", 10800, "first local port to try for instances")
	flags.Int("concurrency", 1, "worker concurrency (distribution rule depends on mode)")
	flags.String("targets", "", "comma-separated target list (URLs for download, host:port for flood modes)")
	flags.String("mode", "download", "traffic mode: download, tcp-flood, udp-flood")
	flags.Int("packet-size", 1024, "payload size in bytes for flood modes")
	flags.Float64("packet-rate", 0, "packets/sec pacing per worker (0 = unpaced)")
	flags.Int("packets-per-conn", 0, "max packets per connection/association before cycling (0 = unlimited)")
	flags.Duration("stats-interval", 5*time.Second, "live stats reporting interval")
	flags.BoolP("verbose", "v", false, "info-level logging")
	flags.Bool("debug", false, "debug-level logging")
	flags.String("binary", "xray", "proxy-client binary to invoke")

	rootCmd.AddCommand(completionCmd)
}

func configureLogging(verbose, debug bool) {
	level := slog.LevelWarn
	switch {
	case debug:
		level = slog.LevelDebug
	case verbose:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
