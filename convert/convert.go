package convert

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/zx7"
	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	e "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Result describes a conversion, also a failed one as far as it got.
type Result struct {
	Input      string
	Output     string
	InputSize  int
	OutputSize int

	// Stage is StageDone after success, or the stage that failed.
	Stage Stage
}

type conversion struct {
	opts  *Options
	log   logrus.FieldLogger
	track tracker
	res   Result

	in       *os.File
	out      *os.File
	created  bool
	size     int64
	src      []byte
	plan     []zx7.Match
	artifact []byte
}

// Convert compresses the file at input into input+".zx7".
//
// The output is created exclusively and is never left behind incomplete:
// if anything fails after it was created, it is removed again. An existing
// output file is never modified. On failure the returned error is an *Error.
func Convert(input string, opts *Options) (Result, error) {
	opts = opts.withDefaults()
	c := &conversion{
		opts: opts,
		log:  opts.Logger.WithField("input", input),
		res:  Result{Input: input},
	}
	defer c.release()

	err := c.run()
	if err != nil {
		c.track.fail()
		c.res.Stage = c.track.failedAt
		c.cleanup()
		c.log.WithError(err).WithField("stage", c.res.Stage).Debug("conversion failed")
		return c.res, err
	}

	c.res.Stage = c.track.current
	return c.res, nil
}

func (c *conversion) run() error {
	steps := []struct {
		stage Stage
		do    func() error
	}{
		{StageResolvePath, c.resolvePath},
		{StageOpenInput, c.openInput},
		{StageMeasureSize, c.measureSize},
		{StageAllocate, c.allocate},
		{StageReadInput, c.readInput},
		{StageCloseInput, c.closeInput},
		{StageProbeCollision, c.probeCollision},
		{StageCreateOutput, c.createOutput},
		{StageAnalyze, c.analyze},
		{StageEncode, c.encode},
		{StageWriteOutput, c.writeOutput},
		{StageCloseOutput, c.closeOutput},
		{StageReport, c.report},
		{StageDone, func() error { return nil }},
	}

	for _, step := range steps {
		c.track.advance(step.stage)
		c.log.WithField("stage", step.stage).Debug("entering stage")
		if err := step.do(); err != nil {
			return err
		}
	}
	return nil
}

func (c *conversion) fail(kind error, path string, err error) error {
	return fail(kind, c.track.current, path, err)
}

func (c *conversion) resolvePath() error {
	c.res.Output = OutputPath(c.res.Input)
	c.log = c.log.WithField("output", c.res.Output)
	return nil
}

func (c *conversion) openInput() error {
	fd, err := openInput(c.res.Input)
	if err != nil {
		return c.fail(ErrNotFound, c.res.Input, err)
	}
	c.in = fd
	return nil
}

func (c *conversion) measureSize() error {
	size, err := measureSize(c.in)
	if err != nil {
		return c.fail(ErrIncompleteRead, c.res.Input, err)
	}
	if size == 0 {
		return c.fail(ErrEmptyInput, c.res.Input, nil)
	}
	c.size = size
	return nil
}

func (c *conversion) allocate() error {
	src, err := allocate(c.size, c.opts.MaxInputSize)
	if err != nil {
		return c.fail(ErrOutOfMemory, c.res.Input, err)
	}
	c.src = src
	c.res.InputSize = len(src)
	c.log.WithField("size", humanize.Bytes(uint64(c.size))).Debug("allocated input buffer")
	return nil
}

func (c *conversion) readInput() error {
	n, err := readFull(c.in, c.src)
	if err != nil || n != len(c.src) {
		if err == nil {
			err = e.Errorf("read %d of %d bytes", n, len(c.src))
		}
		return c.fail(ErrIncompleteRead, c.res.Input, err)
	}
	return nil
}

func (c *conversion) closeInput() error {
	in := c.in
	c.in = nil
	if err := in.Close(); err != nil {
		// All data has been read at this point.
		c.log.WithError(err).Debug("closing input")
	}
	return nil
}

func (c *conversion) probeCollision() error {
	if err := probeCollision(c.res.Output); err != nil {
		return c.fail(ErrAlreadyExists, c.res.Output, nil)
	}
	return nil
}

func (c *conversion) createOutput() error {
	fd, err := createOutput(c.res.Output)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return c.fail(ErrAlreadyExists, c.res.Output, err)
		}
		return c.fail(ErrCreateFailed, c.res.Output, err)
	}
	c.out = fd
	c.created = true
	return nil
}

func (c *conversion) analyze() error {
	plan, err := c.opts.Engine.Analyze(c.src)
	if err != nil {
		return c.fail(ErrEncodingFailed, c.res.Input, err)
	}
	c.log.WithField("matches", len(plan)).Debug("analyzed input")
	c.plan = plan
	return nil
}

func (c *conversion) encode() error {
	artifact, err := c.opts.Engine.Encode(c.plan, c.src)
	c.plan = nil
	if err != nil {
		return c.fail(ErrEncodingFailed, c.res.Input, err)
	}
	if len(artifact) == 0 {
		return c.fail(ErrEncodingFailed, c.res.Input, e.New("engine produced no output"))
	}

	c.artifact = artifact
	c.src = nil
	c.res.OutputSize = len(artifact)
	return nil
}

func (c *conversion) writeOutput() error {
	if err := writeOutput(c.out, c.artifact); err != nil {
		return c.fail(ErrWriteIncomplete, c.res.Output, err)
	}
	if c.opts.Verify {
		if err := verifyOutput(c.out, c.artifact); err != nil {
			return c.fail(ErrWriteIncomplete, c.res.Output, err)
		}
	}
	c.artifact = nil
	return nil
}

func (c *conversion) closeOutput() error {
	out := c.out
	c.out = nil
	if err := out.Close(); err != nil {
		return c.fail(ErrWriteIncomplete, c.res.Output, err)
	}
	return nil
}

func (c *conversion) report() error {
	c.log.WithFields(logrus.Fields{
		"from": humanize.Bytes(uint64(c.res.InputSize)),
		"to":   humanize.Bytes(uint64(c.res.OutputSize)),
	}).Debug("converted")

	if err := report(c.opts.Stdout, c.res.InputSize, c.res.OutputSize); err != nil {
		// The output file is complete; only the message got lost.
		c.log.WithError(err).Warn("writing report")
	}
	return nil
}

// cleanup removes the output file of a failed conversion, if this
// conversion created it.
func (c *conversion) cleanup() {
	if c.out != nil {
		c.out.Close()
		c.out = nil
	}
	if !c.created {
		return
	}

	if err := os.Remove(c.res.Output); err != nil {
		c.log.WithError(err).Warn("removing incomplete output")
	}
	c.created = false
}

func (c *conversion) release() {
	if c.in != nil {
		c.in.Close()
		c.in = nil
	}
	if c.out != nil {
		c.out.Close()
		c.out = nil
	}
	c.src, c.plan, c.artifact = nil, nil, nil
}

// Run converts input and reports the outcome like a command line tool: the
// report line on success, or one "Error: ..." line on Options.Stderr. It
// returns the exit code for the outcome.
func Run(input string, opts *Options) int {
	opts = opts.withDefaults()
	_, err := Convert(input, opts)
	if err != nil {
		printError(opts.Stderr, err)
	}
	return ExitCode(err, opts.ExitCodes)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), err)
}
