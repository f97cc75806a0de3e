package interp

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/lexer"
	"rill/internal/parser"
	"rill/internal/sema"
	"rill/internal/source"
	"rill/internal/symbols"
)

// run checks and executes a program, failing the test on any diagnostic.
// It returns print output, the interpreter (for heap assertions) and the
// runtime error, if any.
func run(t *testing.T, src string, opts Options) (string, *Interp, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.rl", []byte(src))
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	pres := parser.ParseFile(lx, builder, parser.Options{Reporter: rep})
	res := symbols.Resolve(builder, pres.File, symbols.Options{Reporter: rep})
	info := sema.CheckFile(builder, pres.File, res, sema.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("program does not check: %v", bag.Items())
	}

	var out bytes.Buffer
	opts.Out = &out
	in := New(builder, pres.File, res, info, opts)
	err := in.Run()
	return out.String(), in, err
}

func TestPrintScalarsAndStrings(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let n = 41 + 1;
	let ok = n == 42;
	let s = "hello";
	print(n);
	print(ok);
	print(s);
	print(s[1]);
	print(len(s));
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "42\ntrue\nhello\ne\n5\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestCloneKeepsOriginalUsable(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let s = "hello";
	let s2 = clone(s);
	print(s);
	print(s2);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "hello\nhello\n" {
		t.Errorf("output = %q", out)
	}
	if in.Heap().Allocs != 2 {
		t.Errorf("allocs = %d, want 2", in.Heap().Allocs)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestMutatingCloneLeavesOriginalAlone(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let xs = [1, 2, 3];
	let mut ys = clone(xs);
	ys[0] = 9;
	push(&mut ys, 4);
	print(xs);
	print(ys);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "[1, 2, 3]\n[9, 2, 3, 4]\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestDiscardedTemporaryIsFreed(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let s = "keep";
	clone(s);
	print(s);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "keep\n" {
		t.Errorf("output = %q", out)
	}
	if in.Heap().Allocs != 2 {
		t.Errorf("allocs = %d, want 2", in.Heap().Allocs)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestMoveIntoFunctionDropsInCallee(t *testing.T) {
	out, in, err := run(t, `fn consume(s: string) {
	print(s);
}

fn main() {
	let s = "gone";
	consume(s);
}
`, Options{TraceDrops: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "gone\ndrop s\n" {
		t.Errorf("output = %q", out)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestMutateThroughMutRef(t *testing.T) {
	out, _, err := run(t, `fn bump(r: &mut int) {
	*r = *r + 1;
}

fn main() {
	let mut n = 1;
	bump(&mut n);
	bump(&mut n);
	print(n);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "3\n" {
		t.Errorf("output = %q, want %q", out, "3\n")
	}
}

func TestPushThroughMutRef(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let mut xs = [1, 2];
	push(&mut xs, 3);
	print(len(xs));
	print(xs);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "3\n[1, 2, 3]\n" {
		t.Errorf("output = %q", out)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestDropOrderIsReverseDeclaration(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let a = "a";
	let b = "b";
	let c = "c";
}
`, Options{TraceDrops: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "drop c\ndrop b\ndrop a\n" {
		t.Errorf("drop trace = %q", out)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestInnerBlockDropsBeforeOuterContinues(t *testing.T) {
	out, _, err := run(t, `fn main() {
	let a = "outer";
	{
		let b = "inner";
	}
	print(a);
}
`, Options{TraceDrops: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "drop b\nouter\ndrop a\n" {
		t.Errorf("output = %q", out)
	}
}

func TestReturnUnwindsDrops(t *testing.T) {
	out, in, err := run(t, `fn pick() -> string {
	let junk = "junk";
	let keep = "keep";
	return keep;
}

fn main() {
	let s = pick();
	print(s);
}
`, Options{TraceDrops: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// junk dies in pick, keep is moved out and dies in main as s.
	if out != "drop junk\nkeep\ndrop s\n" {
		t.Errorf("output = %q", out)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestStringConcatConsumesOperands(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let hello = "hello, ";
	let world = "world";
	let both = hello + world;
	print(both);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "hello, world\n" {
		t.Errorf("output = %q", out)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestSliceProducesOwnedCopy(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let s = "ownership";
	let head = s[0..3];
	print(head);
	print(s);
	let xs = [10, 20, 30, 40];
	let mid = xs[1..3];
	print(mid);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "own\nownership\n[20, 30]\n" {
		t.Errorf("output = %q", out)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestRuntimeIndexOutOfRange(t *testing.T) {
	_, _, err := run(t, `fn main() {
	let xs = [1, 2, 3];
	let n = len(xs);
	let x = xs[n];
	print(x);
}
`, Options{})
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want RuntimeError", err)
	}
	if !strings.Contains(rerr.Msg, "out of range") {
		t.Errorf("message = %q", rerr.Msg)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, _, err := run(t, `fn main() {
	let z = 0;
	let x = 1 / z;
	print(x);
}
`, Options{})
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want RuntimeError", err)
	}
	if rerr.Msg != "division by zero" {
		t.Errorf("message = %q", rerr.Msg)
	}
}

func TestMissingMain(t *testing.T) {
	_, _, err := run(t, `fn helper() {}
`, Options{})
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want RuntimeError", err)
	}
}

func TestAssignReplacesAndFreesOldValue(t *testing.T) {
	out, in, err := run(t, `fn main() {
	let mut s = "first";
	s = "second";
	print(s);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "second\n" {
		t.Errorf("output = %q", out)
	}
	if in.Heap().Frees != 2 {
		t.Errorf("frees = %d, want 2", in.Heap().Frees)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}

func TestTupleOfCopiesIsCopied(t *testing.T) {
	out, _, err := run(t, `fn main() {
	let pair = (1, true);
	let other = pair;
	print(pair);
	print(other);
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "(1, true)\n(1, true)\n" {
		t.Errorf("output = %q", out)
	}
}

func TestNestedListDropsElements(t *testing.T) {
	_, in, err := run(t, `fn main() {
	let rows = [["a", "b"], ["c"]];
	print(len(rows));
}
`, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if live := in.Heap().Live(); live != 0 {
		t.Errorf("%d heap objects leaked", live)
	}
}
