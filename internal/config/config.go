package config

const VERSION = "1.0.0"

// Defaults for job flags. Config files and QCSUB_* variables override them.
const (
	DefaultThreads   = 4
	DefaultMemMB     = 8192
	DefaultTimeHours = 12
	DefaultOutDir    = "./run"

	// DefaultMaxThreads is the thread limit used on hosts missing from the cluster table.
	DefaultMaxThreads = 64
)

// DefaultAuxVars lists the auxiliary-data variables that must point at existing directories.
var DefaultAuxVars = []string{"QCAUX"}

// Config holds global application settings
type Config struct {
	Debug   bool
	Version string

	// Job defaults
	Threads   int
	MemMB     int
	TimeHours int
	OutDir    string

	// Scheduler
	Slurm        bool
	SchedulerBin string

	// Environment
	AuxVars      []string
	ThreadLimits ThreadLimits
}

// Global holds the singleton configuration instance
var Global Config

// LoadDefaults resets Global to the built-in values.
func LoadDefaults() {
	Global = Config{
		Debug:     false,
		Version:   VERSION,
		Threads:   DefaultThreads,
		MemMB:     DefaultMemMB,
		TimeHours: DefaultTimeHours,
		OutDir:    DefaultOutDir,
		AuxVars:   append([]string(nil), DefaultAuxVars...),
		ThreadLimits: ThreadLimits{
			Hosts:   DefaultClusterLimits(),
			Default: DefaultMaxThreads,
		},
	}
}
