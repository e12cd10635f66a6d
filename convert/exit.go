package convert

import "errors"

// Process exit codes.
const (
	// ExitSuccess is the same as EXIT_SUCCESS in C.
	ExitSuccess = 0

	// ExitFailure is used for every failed conversion under ExitCodesUniform.
	ExitFailure = 1

	// ExitUsage means the command line or the environment was wrong; not our fault.
	ExitUsage = 2
)

// ExitCodePolicy decides how failures map to exit codes.
type ExitCodePolicy int

const (
	// ExitCodesUniform maps every failure to ExitFailure.
	ExitCodesUniform ExitCodePolicy = iota

	// ExitCodesByKind gives each failure kind its own code, starting at 3.
	ExitCodesByKind
)

var policyNames = map[ExitCodePolicy]string{
	ExitCodesUniform: "uniform",
	ExitCodesByKind:  "by-kind",
}

func (p ExitCodePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "unknown"
}

var kindCodes = []struct {
	kind error
	code int
}{
	{ErrNotFound, 3},
	{ErrEmptyInput, 4},
	{ErrOutOfMemory, 5},
	{ErrIncompleteRead, 6},
	{ErrAlreadyExists, 7},
	{ErrCreateFailed, 8},
	{ErrWriteIncomplete, 9},
	{ErrEncodingFailed, 10},
}

// ExitCode returns the exit code for err under policy. A nil err is
// ExitSuccess; errors outside the failure kinds are ExitFailure.
func ExitCode(err error, policy ExitCodePolicy) int {
	if err == nil {
		return ExitSuccess
	}
	if policy != ExitCodesByKind {
		return ExitFailure
	}

	for _, kc := range kindCodes {
		if errors.Is(err, kc.kind) {
			return kc.code
		}
	}
	return ExitFailure
}
