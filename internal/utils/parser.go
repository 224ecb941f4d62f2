package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidSize indicates a size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

var sizeRe = regexp.MustCompile(`^(-?\d+)(K|KB|G|GB|M|MB|T|TB)?$`)

// ParseSizeToMB converts strings like "10G", "500M", "1024" into Megabytes (int).
// Default unit is MB if no suffix is provided.
// Negative and zero values are returned as-is so range checks can report them.
func ParseSizeToMB(sizeStr string) (int, error) {
	s := strings.TrimSpace(strings.ToUpper(sizeStr))

	matches := sizeRe.FindStringSubmatch(s)
	if len(matches) < 2 {
		return 0, fmt.Errorf("%w: %s (expected '8192', '10G', '500M', etc.)", ErrInvalidSize, sizeStr)
	}

	val, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %s", ErrInvalidSize, matches[1])
	}

	switch matches[2] {
	case "K", "KB":
		return val / 1024, nil
	case "G", "GB":
		return val * 1024, nil
	case "T", "TB":
		return val * 1048576, nil
	default:
		return val, nil
	}
}

// ShortHostname returns the first DNS label of a host name.
// "n0012.lr6.lbl.gov" -> "n0012".
func ShortHostname(host string) string {
	host = strings.TrimSpace(host)
	if i := strings.IndexByte(host, '.'); i >= 0 {
		return host[:i]
	}
	return host
}

// TrimNodeNumber strips trailing digits and a dangling separator from a short host name,
// so numbered login/compute nodes map onto their cluster name.
// "login03" -> "login", "perlmutter-login12" -> "perlmutter-login", "123" -> "123".
func TrimNodeNumber(host string) string {
	trimmed := strings.TrimRight(host, "0123456789")
	trimmed = strings.TrimRight(trimmed, "-_")
	if trimmed == "" {
		return host
	}
	return trimmed
}
