package config

import (
	"strings"

	"github.com/Justype/qcsub/internal/utils"
)

// DefaultClusterLimits returns the built-in per-cluster thread limits, keyed by short host name.
func DefaultClusterLimits() map[string]int {
	return map[string]int{
		"lawrencium": 32,
		"lrc":        32,
		"savio":      24,
		"perlmutter": 128,
		"cori":       64,
		"edison":     48,
		"tiger":      40,
		"della":      32,
	}
}

// ThreadLimits maps cluster host names to the largest thread count a single-node job may request.
type ThreadLimits struct {
	Hosts   map[string]int
	Default int
}

// Lookup returns the thread limit for host and whether the host was recognized.
//
// The host is lowercased, shortened to its first DNS label and tried as-is, then
// with any trailing node number removed ("login03" -> "login"). Unknown hosts get
// Default. Table keys are lowercase, as viper stores them.
func (l ThreadLimits) Lookup(host string) (int, bool) {
	short := strings.ToLower(utils.ShortHostname(host))
	if n, ok := l.Hosts[short]; ok {
		return n, true
	}
	if n, ok := l.Hosts[utils.TrimNodeNumber(short)]; ok {
		return n, true
	}
	if l.Default > 0 {
		return l.Default, false
	}
	return DefaultMaxThreads, false
}
