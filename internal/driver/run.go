package driver

import (
	"io"

	"rill/internal/interp"
)

// RunOptions configures check-then-execute.
type RunOptions struct {
	Options
	// Stdout receives print output and drop traces. Defaults to io.Discard.
	Stdout io.Writer
	// TraceDrops logs every drop as it happens.
	TraceDrops bool
}

// Run checks a file and, when it is admitted, executes its main function.
// Rejected programs come back with a filled Bag and no runtime error.
func Run(path string, opts RunOptions) (*Result, error) {
	opts.RequireMain = true
	res, err := CheckFile(path, opts.Options)
	if err != nil {
		return nil, err
	}
	return res, runChecked(res, opts)
}

// RunSource is Run over in-memory content.
func RunSource(name string, content []byte, opts RunOptions) (*Result, error) {
	opts.RequireMain = true
	res := CheckSource(name, content, opts.Options)
	return res, runChecked(res, opts)
}

func runChecked(res *Result, opts RunOptions) error {
	if !res.OK() {
		return nil
	}
	in := interp.New(res.Builder, res.ASTFile, res.Symbols, res.Sema, interp.Options{
		Out:        opts.Stdout,
		TraceDrops: opts.TraceDrops,
	})
	return in.Run()
}
