package cmd

import (
	"fmt"
	"io"

	"github.com/Justype/qcsub/internal/config"
	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/scheduler"
	"github.com/Justype/qcsub/internal/utils"
	"github.com/spf13/cobra"
)

func newSchedulerCmd() *cobra.Command {
	var slurm bool
	cmd := &cobra.Command{
		Use:     "scheduler",
		Aliases: []string{"sched"},
		Short:   "Display scheduler information",
		Long: `Display the submission command qcsub would use on this machine.

Shows the scheduler type (PBS or SLURM), the binary path, availability, and the
thread limit that applies to this host.`,
		Example: `  qcsub scheduler           # Show scheduler information
  qcsub sched --slurm       # Short alias, Slurm backend`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("slurm") {
				slurm = config.Global.Slurm
			}
			host, _ := hostname()
			printSchedulerInfo(cmd.OutOrStdout(), scheduler.New(slurm, config.Global.SchedulerBin), env.FromOS(), host)
		},
	}
	cmd.Flags().BoolVar(&slurm, "slurm", false, "Show the Slurm backend instead of PBS")
	return cmd
}

// printSchedulerInfo writes a structured report; no [QCS] prefix.
func printSchedulerInfo(w io.Writer, sched scheduler.Scheduler, e env.Reader, host string) {
	info := scheduler.GetInfo(sched, e)

	fmt.Fprintln(w, utils.StyleTitle("Scheduler Information:"))
	fmt.Fprintf(w, "  Type:      %s\n", utils.StyleInfo(string(info.Type)))
	fmt.Fprintf(w, "  Binary:    %s\n", utils.StylePath(info.Binary))
	fmt.Fprintf(w, "  Job ID:    %s\n", sched.JobIDVar())

	switch {
	case info.InJob:
		fmt.Fprintf(w, "  Status:    %s (inside job)\n", utils.StyleWarning("Available"))
	case info.Available:
		fmt.Fprintf(w, "  Status:    %s\n", utils.StyleSuccess("Available"))
	default:
		fmt.Fprintf(w, "  Status:    %s\n", utils.StyleError("Not Found"))
		if detected := scheduler.DetectType(); detected != scheduler.SchedulerUnknown && detected != info.Type {
			fmt.Fprintf(w, "  Detected:  %s (use --slurm to switch)\n", utils.StyleInfo(string(detected)))
		}
	}

	cluster := utils.TrimNodeNumber(utils.ShortHostname(host))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Host:      %s\n", utils.StyleName(host))
	limit, known := config.Global.ThreadLimits.Lookup(host)
	if known {
		fmt.Fprintf(w, "  Cluster:   %s\n", utils.StyleName(cluster))
		fmt.Fprintf(w, "  Threads:   %s max\n", utils.StyleNumber(limit))
	} else {
		fmt.Fprintf(w, "  Cluster:   %s (unknown)\n", utils.StyleName(cluster))
		fmt.Fprintf(w, "  Threads:   %s max (default)\n", utils.StyleNumber(limit))
	}
}
