package convert

import "fmt"

// Stage is one step of a conversion. Stages run strictly in the order they
// are declared; StageFailed is the terminal state of every failed run.
type Stage int

const (
	StageStart Stage = iota
	StageResolvePath
	StageOpenInput
	StageMeasureSize
	StageAllocate
	StageReadInput
	StageCloseInput
	StageProbeCollision
	StageCreateOutput
	StageAnalyze
	StageEncode
	StageWriteOutput
	StageCloseOutput
	StageReport
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageStart:          "start",
	StageResolvePath:    "resolve-path",
	StageOpenInput:      "open-input",
	StageMeasureSize:    "measure-size",
	StageAllocate:       "allocate",
	StageReadInput:      "read-input",
	StageCloseInput:     "close-input",
	StageProbeCollision: "probe-collision",
	StageCreateOutput:   "create-output",
	StageAnalyze:        "analyze",
	StageEncode:         "encode",
	StageWriteOutput:    "write-output",
	StageCloseOutput:    "close-output",
	StageReport:         "report",
	StageDone:           "done",
	StageFailed:         "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// IsTerminal reports whether no stage can follow s.
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageFailed
}

// tracker enforces the stage order of one conversion.
type tracker struct {
	current Stage
	// last stage entered before failing
	failedAt Stage
}

// advance moves to next, which must directly follow the current stage.
// Anything else is a bug in the driver.
func (t *tracker) advance(next Stage) {
	if t.current.IsTerminal() || next != t.current+1 {
		panic(fmt.Sprintf("convert: invalid stage transition %s -> %s", t.current, next))
	}
	t.current = next
}

func (t *tracker) fail() {
	if t.current.IsTerminal() {
		panic(fmt.Sprintf("convert: invalid stage transition %s -> %s", t.current, StageFailed))
	}
	t.failedAt = t.current
	t.current = StageFailed
}
