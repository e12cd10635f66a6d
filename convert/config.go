package convert

import (
	"os"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	isatty "github.com/mattn/go-isatty"
	e "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvExitCodes    = "ZX7_EXIT_CODES"
	EnvLogLevel     = "ZX7_LOG_LEVEL"
	EnvVerify       = "ZX7_VERIFY"
	EnvMaxInputSize = "ZX7_MAX_INPUT_SIZE"
)

// OptionsFromEnv builds Options from DefaultOptions and the environment, as
// seen through lookup (usually os.LookupEnv). Unset or empty variables keep
// their defaults; malformed ones are an error.
func OptionsFromEnv(lookup func(string) (string, bool)) (*Options, error) {
	opts := DefaultOptions()
	get := func(key string) (string, bool) {
		val, ok := lookup(key)
		val = strings.TrimSpace(val)
		return val, ok && val != ""
	}

	if val, ok := get(EnvExitCodes); ok {
		policy, err := parseExitCodePolicy(val)
		if err != nil {
			return nil, e.Wrapf(err, "%s", EnvExitCodes)
		}
		opts.ExitCodes = policy
	}

	level := logrus.WarnLevel
	if val, ok := get(EnvLogLevel); ok {
		lvl, err := logrus.ParseLevel(val)
		if err != nil {
			return nil, e.Wrapf(err, "%s", EnvLogLevel)
		}
		level = lvl
	}
	opts.Logger = newLogger(level)

	if val, ok := get(EnvVerify); ok {
		verify, err := strconv.ParseBool(val)
		if err != nil {
			return nil, e.Wrapf(err, "%s", EnvVerify)
		}
		opts.Verify = verify
	}

	if val, ok := get(EnvMaxInputSize); ok {
		size, err := humanize.ParseBytes(val)
		if err != nil {
			return nil, e.Wrapf(err, "%s", EnvMaxInputSize)
		}
		if size > uint64(maxInt) {
			return nil, e.Errorf("%s: %s is too large", EnvMaxInputSize, val)
		}
		opts.MaxInputSize = int64(size)
	}

	return opts, nil
}

func parseExitCodePolicy(val string) (ExitCodePolicy, error) {
	for policy, name := range policyNames {
		if strings.EqualFold(val, name) {
			return policy, nil
		}
	}
	return ExitCodesUniform, e.Errorf("unknown exit code policy %q (want uniform or by-kind)", val)
}

func newLogger(level logrus.Level) *logrus.Logger {
	useColors := isatty.IsTerminal(os.Stderr.Fd())

	log := logrus.New()
	log.Out = os.Stderr
	log.Level = level
	log.Formatter = &logrus.TextFormatter{
		DisableTimestamp: true,
		ForceColors:      useColors,
		DisableColors:    !useColors,
	}
	return log
}
