package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Justype/qcsub/internal/config"
	"github.com/Justype/qcsub/internal/env"
	"github.com/Justype/qcsub/internal/job"
	"github.com/Justype/qcsub/internal/scheduler"
	"github.com/Justype/qcsub/internal/script"
	"github.com/Justype/qcsub/internal/utils"
	"github.com/Justype/qcsub/internal/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// exitInvalid is the exit status when validation fails.
const exitInvalid = -1

// ExitError carries a process exit status out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Swapped out in tests.
var (
	runner   scheduler.Runner = scheduler.ExecRunner{}
	hostname                  = os.Hostname
	getwd                     = os.Getwd
)

var (
	debugMode bool
	quietMode bool
)

// memFlag is a memory size in MB that also accepts unit suffixes ("8G", "512M").
type memFlag struct {
	mb int
}

var _ pflag.Value = (*memFlag)(nil)

func (m *memFlag) String() string { return strconv.Itoa(m.mb) }

func (m *memFlag) Set(s string) error {
	mb, err := utils.ParseSizeToMB(s)
	if err != nil {
		return err
	}
	m.mb = mb
	return nil
}

func (m *memFlag) Type() string { return "size" }

// submitOptions holds the raw flag values of the root command.
type submitOptions struct {
	dryRun    bool
	output    string
	threads   int
	mem       memFlag
	queue     string
	branch    string
	save      bool
	outDir    string
	restart   string
	timeHours int
	bare      bool
	slurm     bool
	core      bool
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &submitOptions{mem: memFlag{mb: config.DefaultMemMB}}

	cmd := &cobra.Command{
		Use:   "qcsub [flags] <input>",
		Short: "Validate a Q-Chem job and submit it to PBS or Slurm",
		Long: `Validate the Q-Chem installation and environment, generate a job script that
stages files through scratch space, and submit it to the batch scheduler.

Required environment: $QC, $QCSCRATCH (absolute), $QCAUX, $QCPLATFORM.
Branches given by name are resolved under $QCROOT.`,
		Example: `  qcsub h2o.in                      # 4 threads, 8 GB, 12 h on PBS
  qcsub -t 16 -m 32G -w 48 opt.in   # bigger job
  qcsub --slurm -q lr6 freq.in      # Slurm partition lr6
  qcsub -n -b trunk h2o.in          # dry run against $QCROOT/trunk`,
		Version:           config.VERSION,
		Args:              cobra.ExactArgs(1),
		SilenceErrors:     true,
		SilenceUsage:      true,
		ValidArgsFunction: completeInputFiles,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDefaults()
			if err := config.InitViper(); err != nil {
				utils.PrintDebug("Error reading config file: %v", err)
			}
			config.LoadFromViper()

			utils.QuietMode = quietMode
			if debugMode {
				utils.DebugMode = true
				config.Global.Debug = true
				utils.PrintDebug("Debug mode enabled")
				utils.PrintDebug("qcsub Version: %s", utils.StyleInfo(config.VERSION))
				if configPath, err := config.GetUserConfigPath(); err == nil {
					utils.PrintDebug("User config: %s", configPath)
				}
				if config.Global.SchedulerBin != "" {
					utils.PrintDebug("Scheduler Binary: %s", config.Global.SchedulerBin)
				}
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Validate and print the script and environment without submitting")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (default <input>.out)")
	flags.IntVarP(&opts.threads, "threads", "t", config.DefaultThreads, "Number of threads")
	flags.VarP(&opts.mem, "mem", "m", "Memory in MB (accepts 8G, 512M)")
	flags.StringVarP(&opts.queue, "queue", "q", "", "Queue (PBS) or partition (Slurm)")
	flags.StringVarP(&opts.branch, "branch", "b", "", "Q-Chem branch: install path, or name under $QCROOT")
	flags.BoolVarP(&opts.save, "save", "s", false, "Keep scratch output and copy it to the output directory")
	flags.StringVarP(&opts.outDir, "outdir", "d", config.DefaultOutDir, "Output/scratch subdirectory (relative)")
	flags.StringVarP(&opts.restart, "restart", "r", "", "Restart input directory copied into scratch")
	flags.IntVarP(&opts.timeHours, "time", "w", config.DefaultTimeHours, "Wall-clock limit in hours")
	flags.BoolVar(&opts.bare, "bare", false, "Run qcprog.exe directly instead of the qchem launcher")
	flags.BoolVar(&opts.slurm, "slurm", false, "Submit with sbatch instead of qsub")
	flags.BoolVar(&opts.core, "core", false, "Enable core dumps")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	cmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "Only print warnings and errors")

	cmd.AddCommand(newSchedulerCmd(), newCompletionCmd())
	return cmd
}

// Execute runs the root command and exits with the status it produced.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Err != nil {
				utils.PrintError("%v", exitErr.Err)
			}
			os.Exit(exitErr.Code)
		}
		utils.PrintError("%v", err)
		os.Exit(1)
	}
}

// buildJob merges flags with configured defaults. Flags the user did not set take config values.
func buildJob(cmd *cobra.Command, opts *submitOptions, input string) (job.Job, error) {
	wd, err := getwd()
	if err != nil {
		return job.Job{}, fmt.Errorf("cannot determine working directory: %w", err)
	}

	j := job.Job{
		Input:     input,
		Output:    opts.output,
		WorkDir:   wd,
		Threads:   opts.threads,
		MemMB:     opts.mem.mb,
		TimeHours: opts.timeHours,
		Queue:     opts.queue,
		Branch:    opts.branch,
		OutDir:    opts.outDir,
		Restart:   opts.restart,
		Save:      opts.save,
		Bare:      opts.bare,
		Slurm:     opts.slurm,
		CoreDump:  opts.core,
		DryRun:    opts.dryRun,
	}

	flags := cmd.Flags()
	if !flags.Changed("threads") {
		j.Threads = config.Global.Threads
	}
	if !flags.Changed("mem") {
		j.MemMB = config.Global.MemMB
	}
	if !flags.Changed("time") {
		j.TimeHours = config.Global.TimeHours
	}
	if !flags.Changed("outdir") {
		j.OutDir = config.Global.OutDir
	}
	if !flags.Changed("slurm") {
		j.Slurm = config.Global.Slurm
	}
	return j, nil
}

func runSubmit(cmd *cobra.Command, opts *submitOptions, input string) error {
	j, err := buildJob(cmd, opts, input)
	if err != nil {
		return &ExitError{Code: scheduler.ExitFailure, Err: err}
	}

	host, err := hostname()
	if err != nil {
		utils.PrintDebug("Cannot read host name: %v", err)
	}

	e := env.FromOS()
	res := validate.Validate(j, e, validate.DefaultOptions(host))
	if err := res.Err(); err != nil {
		if j.DryRun {
			utils.PrintError("%v", err)
			utils.PrintNote("Dry run: nothing submitted")
			return nil
		}
		return &ExitError{Code: exitInvalid, Err: err}
	}

	sched := scheduler.New(res.Job.Slurm, config.Global.SchedulerBin)
	s, err := script.Generate(res, script.Options{JobIDVar: sched.JobIDVar()})
	if err != nil {
		return &ExitError{Code: scheduler.ExitFailure, Err: err}
	}

	if res.Job.DryRun {
		printDryRun(cmd.OutOrStdout(), s, res.Env, scheduler.CommandLine(sched, res.Job))
		return nil
	}

	if scheduler.IsInsideJob(res.Env) {
		utils.PrintWarning("Submitting from inside a running %s job", sched.Type())
	}

	utils.PrintMessage("Submitting %s with %s", utils.StyleName(res.Job.Name()), utils.StyleCommand(sched.Binary()))
	code, err := scheduler.Submit(sched, res.Job, s.Bytes(), res.Env, runner)
	if err != nil {
		if errors.Is(err, scheduler.ErrSchedulerNotFound) {
			utils.PrintHint("Set %s in the config file, or use --slurm to switch schedulers", utils.StyleName("scheduler.bin"))
		}
		return &ExitError{Code: code, Err: err}
	}
	utils.PrintSuccess("Submitted %s (output: %s)", utils.StyleName(res.Job.Name()), utils.StylePath(res.Job.Output))
	return nil
}

// printDryRun writes the submission command, the script and the resolved environment.
func printDryRun(w io.Writer, s *script.Script, e env.Reader, commandLine string) {
	fmt.Fprintln(w, "# Submission command:")
	fmt.Fprintf(w, "#   %s\n", commandLine)
	fmt.Fprintln(w, "# Script:")
	w.Write(s.Bytes())
	fmt.Fprintln(w, "# Environment:")
	for _, kv := range e.Environ() {
		fmt.Fprintln(w, kv)
	}
}
