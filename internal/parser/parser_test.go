package parser

import (
	"testing"

	"rill/internal/ast"
	"rill/internal/diag"
	"rill/internal/lexer"
	"rill/internal/source"
)

type parseFixture struct {
	builder *ast.Builder
	result  Result
	bag     *diag.Bag
}

func parseSource(t *testing.T, src string) parseFixture {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rl", []byte(src))
	bag := diag.NewBag(64)
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := ParseFile(lx, builder, Options{Reporter: diag.BagReporter{Bag: bag}})
	return parseFixture{builder: builder, result: res, bag: bag}
}

func (f parseFixture) onlyFn(t *testing.T) *ast.FnItem {
	t.Helper()
	file := f.builder.Files.Get(f.result.File)
	if len(file.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(file.Items))
	}
	fn, ok := f.builder.Items.Fn(file.Items[0])
	if !ok {
		t.Fatal("item is not a function")
	}
	return fn
}

func (f parseFixture) blockStmts(t *testing.T, id ast.StmtID) []ast.StmtID {
	t.Helper()
	block, ok := f.builder.Stmts.Block(id)
	if !ok {
		t.Fatalf("stmt %d is not a block", id)
	}
	return block.Stmts
}

func TestParseEmptyFn(t *testing.T) {
	f := parseSource(t, "fn main() {}\n")
	if f.bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", f.bag.Items())
	}
	fn := f.onlyFn(t)
	if f.builder.Lookup(fn.Name) != "main" {
		t.Errorf("name = %q", f.builder.Lookup(fn.Name))
	}
	if len(fn.Params) != 0 || fn.Result.IsValid() {
		t.Errorf("unexpected signature: %+v", fn)
	}
	if got := f.blockStmts(t, fn.Body); len(got) != 0 {
		t.Errorf("body stmts = %d, want 0", len(got))
	}
}

func TestParseFnSignature(t *testing.T) {
	f := parseSource(t, "fn find(items: &[int], want: int) -> &mut string {}\n")
	if f.bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", f.bag.Items())
	}
	fn := f.onlyFn(t)
	if len(fn.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(fn.Params))
	}

	p0 := f.builder.Items.Param(fn.Params[0])
	rt, ok := f.builder.Types.Ref(p0.Type)
	if !ok || rt.IsMut {
		t.Errorf("param 0 type is not &[int]: %+v", rt)
	}
	if _, ok := f.builder.Types.List(rt.Inner); !ok {
		t.Error("param 0 inner type is not a list")
	}

	res, ok := f.builder.Types.Ref(fn.Result)
	if !ok || !res.IsMut {
		t.Errorf("result is not &mut: %+v", res)
	}
}

func TestParseLetForms(t *testing.T) {
	src := `fn main() {
	let x = 1;
	let mut s: string = "hi";
	let pair = (x, 2);
	let items = [1, 2, 3];
}
`
	f := parseSource(t, src)
	if f.bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", f.bag.Items())
	}
	fn := f.onlyFn(t)
	stmts := f.blockStmts(t, fn.Body)
	if len(stmts) != 4 {
		t.Fatalf("stmts = %d, want 4", len(stmts))
	}

	l0, ok := f.builder.Stmts.Let(stmts[0])
	if !ok || l0.IsMut || l0.Type.IsValid() {
		t.Errorf("let x: %+v, %v", l0, ok)
	}
	l1, ok := f.builder.Stmts.Let(stmts[1])
	if !ok || !l1.IsMut || !l1.Type.IsValid() {
		t.Errorf("let mut s: %+v, %v", l1, ok)
	}
	l2, _ := f.builder.Stmts.Let(stmts[2])
	if tup, ok := f.builder.Exprs.Tuple(l2.Init); !ok || len(tup.Elems) != 2 {
		t.Errorf("pair init is not a 2-tuple")
	}
	l3, _ := f.builder.Stmts.Let(stmts[3])
	if list, ok := f.builder.Exprs.List(l3.Init); !ok || len(list.Elems) != 3 {
		t.Errorf("items init is not a 3-list")
	}
}

func TestParsePrecedence(t *testing.T) {
	f := parseSource(t, "fn main() { let r = 1 + 2 * 3 == 7; }\n")
	if f.bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", f.bag.Items())
	}
	fn := f.onlyFn(t)
	stmts := f.blockStmts(t, fn.Body)
	let, _ := f.builder.Stmts.Let(stmts[0])

	eq, ok := f.builder.Exprs.Binary(let.Init)
	if !ok || eq.Op != ast.BinaryEq {
		t.Fatalf("top op = %v, want ==", eq)
	}
	add, ok := f.builder.Exprs.Binary(eq.Left)
	if !ok || add.Op != ast.BinaryAdd {
		t.Fatalf("left of == is %v, want +", add)
	}
	mul, ok := f.builder.Exprs.Binary(add.Right)
	if !ok || mul.Op != ast.BinaryMul {
		t.Fatalf("right of + is %v, want *", mul)
	}
}

func TestParseBorrowAndSlice(t *testing.T) {
	src := `fn main() {
	let mut v = [1, 2, 3];
	let r = &mut v;
	let s = v[1..3];
	let open = v[..2];
	let one = v[0];
}
`
	f := parseSource(t, src)
	if f.bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", f.bag.Items())
	}
	fn := f.onlyFn(t)
	stmts := f.blockStmts(t, fn.Body)

	l1, _ := f.builder.Stmts.Let(stmts[1])
	ref, ok := f.builder.Exprs.Unary(l1.Init)
	if !ok || ref.Op != ast.UnaryRefMut {
		t.Errorf("r init = %+v, want &mut", ref)
	}

	l2, _ := f.builder.Stmts.Let(stmts[2])
	sl, ok := f.builder.Exprs.Slice(l2.Init)
	if !ok || !sl.Lo.IsValid() || !sl.Hi.IsValid() {
		t.Errorf("s init = %+v, want closed slice", sl)
	}

	l3, _ := f.builder.Stmts.Let(stmts[3])
	open, ok := f.builder.Exprs.Slice(l3.Init)
	if !ok || open.Lo.IsValid() || !open.Hi.IsValid() {
		t.Errorf("open init = %+v, want [..2]", open)
	}

	l4, _ := f.builder.Stmts.Let(stmts[4])
	if _, ok := f.builder.Exprs.Index(l4.Init); !ok {
		t.Error("one init is not an index expression")
	}
}

func TestParseAssignAndReturn(t *testing.T) {
	src := `fn rank(x: int) -> int {
	let mut y = x;
	y = y + 1;
	return y;
}
`
	f := parseSource(t, src)
	if f.bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", f.bag.Items())
	}
	fn := f.onlyFn(t)
	stmts := f.blockStmts(t, fn.Body)
	if len(stmts) != 3 {
		t.Fatalf("stmts = %d, want 3", len(stmts))
	}

	es, ok := f.builder.Stmts.Expr(stmts[1])
	if !ok {
		t.Fatal("stmt 1 is not an expression statement")
	}
	if _, ok := f.builder.Exprs.Assign(es.Expr); !ok {
		t.Error("stmt 1 is not an assignment")
	}

	ret, ok := f.builder.Stmts.Return(stmts[2])
	if !ok || !ret.Value.IsValid() {
		t.Errorf("return = %+v, %v", ret, ok)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	src := `fn main() {
	let = 1;
	let ok = 2;
}
fn second() {}
`
	f := parseSource(t, src)
	if !f.bag.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	found := false
	for _, d := range f.bag.Items() {
		if d.Code == diag.SynExpectIdentifier {
			found = true
		}
	}
	if !found {
		t.Errorf("missing SynExpectIdentifier: %v", f.bag.Items())
	}
	// Recovery keeps both functions.
	file := f.builder.Files.Get(f.result.File)
	if len(file.Items) != 2 {
		t.Errorf("items after recovery = %d, want 2", len(file.Items))
	}
}

func TestParseMissingSemicolon(t *testing.T) {
	f := parseSource(t, "fn main() { let x = 1 }\n")
	if !f.bag.HasErrors() {
		t.Fatal("expected an error")
	}
	if f.bag.Items()[0].Code != diag.SynExpectSemicolon {
		t.Errorf("code = %v, want SynExpectSemicolon", f.bag.Items()[0].Code)
	}
}

func TestMaxErrorsStopsReporting(t *testing.T) {
	src := "fn main() { let = 1; let = 2; let = 3; }\n"
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rl", []byte(src))
	bag := diag.NewBag(64)
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	ParseFile(lx, builder, Options{MaxErrors: 1, Reporter: diag.BagReporter{Bag: bag}})
	if got := bag.Len(); got != 1 {
		t.Errorf("reported %d diagnostics, want 1", got)
	}
}
