package driver

import (
	"bytes"
	"strings"
	"testing"

	"rill/internal/diag"
)

func TestCheckSourceClean(t *testing.T) {
	res := CheckSource("ok.rl", []byte(`fn main() {
	let s = "hello";
	print(s);
}
`), Options{})
	if !res.OK() {
		t.Fatalf("expected clean check, got %v", res.Bag.Items())
	}
	if res.Symbols == nil || res.Sema == nil {
		t.Fatal("clean check must produce symbols and sema info")
	}
}

func TestCheckSourceRejectsUseAfterMove(t *testing.T) {
	res := CheckSource("move.rl", []byte(`fn main() {
	let s = "hello";
	let s2 = s;
	print(s);
}
`), Options{})
	if res.OK() {
		t.Fatal("moved value read must be rejected")
	}
	if got := res.Bag.Items()[0].Code; got != diag.OwnUseAfterMove {
		t.Errorf("code = %v, want OwnUseAfterMove", got)
	}
}

func TestCheckSourceStopsAfterParseErrors(t *testing.T) {
	res := CheckSource("syn.rl", []byte(`fn main( {`), Options{})
	if res.OK() {
		t.Fatal("malformed file must be rejected")
	}
	if res.Symbols != nil {
		t.Error("resolution must not run on a file that did not parse")
	}
}

func TestRunSourceExecutesCleanProgram(t *testing.T) {
	var out bytes.Buffer
	res, err := RunSource("run.rl", []byte(`fn main() {
	let s = "hello";
	print(s);
}
`), RunOptions{Stdout: &out})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.OK() {
		t.Fatalf("diagnostics: %v", res.Bag.Items())
	}
	if out.String() != "hello\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunSourceRejectedProgramDoesNotExecute(t *testing.T) {
	var out bytes.Buffer
	res, err := RunSource("bad.rl", []byte(`fn main() {
	let s = "hello";
	let s2 = s;
	print(s);
}
`), RunOptions{Stdout: &out})
	if err != nil {
		t.Fatalf("rejection is not a runtime error: %v", err)
	}
	if res.OK() {
		t.Fatal("program must be rejected")
	}
	if out.Len() != 0 {
		t.Errorf("rejected program produced output %q", out.String())
	}
}

func TestRunSourceRejectsDanglingRefPrograms(t *testing.T) {
	programs := map[string]string{
		"through call": `fn id(r: &string) -> &string {
	return r;
}
fn grab() -> &string {
	let s = "local";
	return id(&s);
}
fn main() {
	print(grab());
}
`,
		"through assignment": `fn main() {
	let x = "x";
	let mut r = &x;
	{
		let y = "y";
		r = &y;
	}
	print(r);
}
`,
	}
	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			res, err := RunSource("dangle.rl", []byte(src), RunOptions{Stdout: &out})
			if err != nil {
				t.Fatalf("rejection is not a runtime error: %v", err)
			}
			if res.OK() {
				t.Fatal("program must be rejected")
			}
			if out.Len() != 0 {
				t.Errorf("rejected program produced output %q", out.String())
			}
			found := false
			for _, d := range res.Bag.Items() {
				if d.Code == diag.OwnDanglingRef {
					found = true
				}
			}
			if !found {
				t.Errorf("diagnostics = %v, want OwnDanglingRef", res.Bag.Items())
			}
		})
	}
}

func TestRunSourceRequiresMain(t *testing.T) {
	res, err := RunSource("nomain.rl", []byte(`fn helper() {}
`), RunOptions{})
	if err != nil {
		t.Fatalf("missing main is a diagnostic, not an error: %v", err)
	}
	if res.OK() {
		t.Fatal("program without main must be rejected for run")
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.SemMissingMain {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want SemMissingMain", res.Bag.Items())
	}
}

func TestTokenizeFile(t *testing.T) {
	path := writeFile(t, "tok.rl", "fn main() {}\n")
	res, err := Tokenize(path, 16)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("diagnostics: %v", res.Bag.Items())
	}
	var kinds []string
	for _, tok := range res.Tokens {
		kinds = append(kinds, tok.Kind.String())
	}
	joined := strings.Join(kinds, " ")
	if !strings.HasPrefix(joined, "fn ident ( ) { }") {
		t.Errorf("kinds = %q", joined)
	}
}
