package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"herscat/internal/proxyuri"
	"herscat/internal/stats"
	"herscat/internal/stress"
	"herscat/internal/supervisor"
	"herscat/internal/targets"
	herrors "herscat/pkg/errors"
)

func runStress(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	verbose, _ := flags.GetBool("verbose")
	debug, _ := flags.GetBool("debug")
	configureLogging(verbose, debug)

	url, _ := flags.GetString("url")
	list, _ := flags.GetString("list")
	records, err := loadRecords(url, list)
	if err != nil {
		return err
	}

	modeStr, _ := flags.GetString("mode")
	mode := targets.Mode(modeStr)
	if mode != targets.ModeDownload && mode != targets.ModeTCPFlood && mode != targets.ModeUDPFlood {
		return herrors.NewValidationError("mode", modeStr, "must be one of download, tcp-flood, udp-flood")
	}

	targetsRaw, _ := flags.GetString("targets")
	resolvedTargets, err := targets.Resolve(mode, targetsRaw)
	if err != nil {
		return err
	}

	instances, _ := flags.GetInt("instances")
	basePort, _ := flags.GetInt("base-port")
	binary, _ := flags.GetString("binary")

	sup := supervisor.New(binary)
	ports, err := sup.StartInstances(records, basePort, instances)
	if err != nil {
		return fmt.Errorf("starting proxy instances: %w", err)
	}
	stopMonitor := sup.StartMonitor(5 * time.Second)

	concurrency, _ := flags.GetInt("concurrency")
	duration, _ := flags.GetDuration("duration")
	packetSize, _ := flags.GetInt("packet-size")
	packetRate, _ := flags.GetFloat64("packet-rate")
	packetsPerConn, _ := flags.GetInt("packets-per-conn")
	statsInterval, _ := flags.GetDuration("stats-interval")

	cfg := stress.Config{
		Mode:                 mode,
		Targets:              resolvedTargets,
		Concurrency:          concurrency,
		Duration:             duration,
		ProxyPorts:           ports,
		PacketSize:           packetSize,
		PacketRate:           packetRate,
		PacketsPerConnection: packetsPerConn,
	}

	runner, err := stress.NewRunner(cfg)
	if err != nil {
		stopMonitor()
		sup.TerminateAll()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Warn("interrupt received, shutting down")
		cancel()
	}()

	snap := runner.Run(ctx, statsInterval)

	stopMonitor()
	sup.TerminateAll()

	printSummary(mode, snap)
	return nil
}

func loadRecords(url, list string) ([]*proxyuri.ProxyRecord, error) {
	switch {
	case url != "" && list != "":
		return nil, herrors.NewValidationError("url/list", "", "--url and --list are mutually exclusive")
	case url != "":
		record, err := proxyuri.ParseURL(url)
		if err != nil {
			return nil, err
		}
		return []*proxyuri.ProxyRecord{record}, nil
	case list != "":
		data, err := os.ReadFile(list)
		if err != nil {
			return nil, herrors.NewValidationError("list", list, err.Error())
		}
		return proxyuri.ParseList(string(data))
	default:
		return nil, herrors.NewValidationError("url/list", "", "exactly one of --url or --list is required")
	}
}

func printSummary(mode targets.Mode, snap stats.Snapshot) {
	fmt.Fprintf(os.Stdout, "herscat run finished (mode=%s, elapsed=%s, success=%d, failure=%d, bytes=%d, packets=%d)\n",
		mode, snap.Elapsed().Round(time.Second), snap.SuccessEvents, snap.FailureEvents, snap.BytesTransferred, snap.PacketsSent)
}
