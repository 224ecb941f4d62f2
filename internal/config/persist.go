package config

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/Justype/qcsub/internal/utils"
)

// ConfigFilename is the name of the config file
const ConfigFilename = "config"

// ConfigType is the type of config file (yaml, json, toml)
const ConfigType = "yaml"

// InitViper initializes Viper with proper search paths and defaults
// Priority (highest to lowest):
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (QCSUB_*)
// 3. User config file (~/.config/qcsub/config.yaml)
// 4. System config file (/etc/qcsub/config.yaml)
// 5. Defaults
func InitViper() error {
	viper.SetConfigName(ConfigFilename)
	viper.SetConfigType(ConfigType)

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(userConfigDir, "qcsub"))
	}

	// Home directory fallback
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".qcsub"))
	}

	viper.AddConfigPath("/etc/qcsub")

	// Current directory (for development)
	viper.AddConfigPath(".")

	// QCSUB_DEFAULTS_THREADS -> defaults.threads
	viper.SetEnvPrefix("QCSUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// Read config file (non-fatal if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// setDefaults sets default values for all config keys
func setDefaults() {
	viper.SetDefault("defaults.threads", DefaultThreads)
	viper.SetDefault("defaults.mem_mb", DefaultMemMB)
	viper.SetDefault("defaults.time_hours", DefaultTimeHours)
	viper.SetDefault("defaults.outdir", DefaultOutDir)

	viper.SetDefault("scheduler.slurm", false)
	viper.SetDefault("scheduler.bin", "")

	viper.SetDefault("cluster.default_max_threads", DefaultMaxThreads)
	viper.SetDefault("cluster.max_threads", map[string]int{})

	viper.SetDefault("env.aux_vars", DefaultAuxVars)
}

// GetUserConfigPath returns the path to the user config file
func GetUserConfigPath() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".qcsub", ConfigFilename+"."+ConfigType), nil
	}

	return filepath.Join(userConfigDir, "qcsub", ConfigFilename+"."+ConfigType), nil
}

// ValidateBinary checks if a binary exists and is executable
func ValidateBinary(binPath string) bool {
	if binPath == "" {
		return false
	}

	if filepath.IsAbs(binPath) {
		info, err := os.Stat(binPath)
		if err != nil {
			return false
		}
		return info.Mode()&0111 != 0
	}

	_, err := exec.LookPath(binPath)
	return err == nil
}

// LoadFromViper loads config from Viper into Global struct.
// Invalid or non-positive values keep the built-in defaults.
func LoadFromViper() {
	if n := viper.GetInt("defaults.threads"); n > 0 {
		Global.Threads = n
	}
	if n := viper.GetInt("defaults.mem_mb"); n > 0 {
		Global.MemMB = n
	}
	if n := viper.GetInt("defaults.time_hours"); n > 0 {
		Global.TimeHours = n
	}
	if dir := viper.GetString("defaults.outdir"); dir != "" {
		Global.OutDir = dir
	}

	Global.Slurm = viper.GetBool("scheduler.slurm")
	if bin := viper.GetString("scheduler.bin"); bin != "" {
		if ValidateBinary(bin) {
			Global.SchedulerBin = bin
		} else {
			// Leave empty so the submitter falls back to PATH lookup
			Global.SchedulerBin = ""
		}
	}

	if n := viper.GetInt("cluster.default_max_threads"); n > 0 {
		Global.ThreadLimits.Default = n
	}
	for host, limit := range viper.GetStringMap("cluster.max_threads") {
		n, err := parseLimit(limit)
		if err != nil || n <= 0 {
			utils.PrintWarning("Ignoring cluster.max_threads.%s = %v: not a positive integer", host, limit)
			continue
		}
		if Global.ThreadLimits.Hosts == nil {
			Global.ThreadLimits.Hosts = make(map[string]int)
		}
		Global.ThreadLimits.Hosts[host] = n
	}

	if vars := viper.GetStringSlice("env.aux_vars"); len(vars) > 0 {
		Global.AuxVars = vars
	}
}

// parseLimit converts a configured thread limit. Fractional and boolean values are
// rejected rather than truncated.
func parseLimit(v interface{}) (int, error) {
	switch n := v.(type) {
	case bool:
		return 0, fmt.Errorf("unable to use %v as a thread count", v)
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, fmt.Errorf("thread count %v is not a whole number", v)
		}
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("thread count %v is not a whole number", v)
		}
	}
	return cast.ToIntE(v)
}
