package driver

import (
	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/lexer"
	"rill/internal/parser"
	"rill/internal/sema"
	"rill/internal/source"
	"rill/internal/symbols"
)

// Options configures a single-file check.
type Options struct {
	// MaxDiagnostics caps the bag. Zero means DefaultMaxDiagnostics.
	MaxDiagnostics int
	// RequireMain reports an error when the file has no main function.
	RequireMain bool
}

const DefaultMaxDiagnostics = 64

// Result bundles everything the front end produced for one file.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	ASTFile ast.FileID
	Symbols *symbols.Resolution
	Sema    *sema.Info
	Bag     *diag.Bag
}

// OK reports whether the program was admitted: no errors, free to execute.
func (r *Result) OK() bool {
	return r != nil && !r.Bag.HasErrors()
}

// CheckFile loads a file from disk and runs the full front end over it.
func CheckFile(path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return checkLoaded(fs, fileID, opts), nil
}

// CheckSource checks in-memory content under a virtual file name.
func CheckSource(name string, content []byte, opts Options) *Result {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return checkLoaded(fs, fileID, opts)
}

func checkLoaded(fs *source.FileSet, fileID source.FileID, opts Options) *Result {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = DefaultMaxDiagnostics
	}
	bag := diag.NewBag(maxDiags)
	rep := diag.BagReporter{Bag: bag}
	file := fs.Get(fileID)

	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	pres := parser.ParseFile(lx, builder, parser.Options{Reporter: rep})

	res := &Result{
		FileSet: fs,
		File:    file,
		Builder: builder,
		ASTFile: pres.File,
		Bag:     bag,
	}
	// A file that does not parse has no business being resolved.
	if bag.HasErrors() {
		return res
	}

	res.Symbols = symbols.Resolve(builder, pres.File, symbols.Options{
		Reporter:    rep,
		RequireMain: opts.RequireMain,
	})
	if bag.HasErrors() {
		return res
	}

	// The checker can re-report the same violation on every later use of a
	// moved binding; collapse those into one diagnostic.
	res.Sema = sema.CheckFile(builder, pres.File, res.Symbols, sema.Options{
		Reporter: diag.NewDedupReporter(rep),
	})
	return res
}
