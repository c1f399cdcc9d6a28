package tokenizer

import (
	"strings"
	"testing"

	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	"github.com/apache/royale-compiler-sub012/internal/token"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

func testOptions(p source.Provider) Options {
	return Options{Provider: p, FollowIncludes: true, Logger: aslog.Discard()}
}

func tokenize(t *testing.T, src string) ([]*token.Token, *problem.List) {
	t.Helper()
	tz := New("Test.as", src, testOptions(source.NewMemoryProvider()))
	return tz.Drain(), tz.Problems()
}

func kindsOf(toks []*token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []*token.Token {
	t.Helper()
	toks, _ := tokenize(t, src)
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%q: token %d (%q) = %s, want %s", src, i, toks[i].Text, got[i], want[i])
		}
	}
	return toks
}

func TestKeywordReclassification(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"member access", "x.class", []token.Kind{token.Identifier, token.Dot, token.Identifier}},
		{"namespace access", "ns::get", []token.Kind{token.Identifier, token.DoubleColon, token.Identifier}},
		{"getter", "function get name()", []token.Kind{
			token.KeywordFunction, token.ReservedGet, token.Identifier, token.ParenOpen, token.ParenClose}},
		{"get as function name", "function get()", []token.Kind{
			token.KeywordFunction, token.Identifier, token.ParenOpen, token.ParenClose}},
		{"get as variable", "get = 5", []token.Kind{token.Identifier, token.OperatorAssign, token.LiteralNumber}},
		{"static modifier", "static var x", []token.Kind{token.ModifierStatic, token.KeywordVar, token.Identifier}},
		{"static as variable", "static = 1", []token.Kind{token.Identifier, token.OperatorAssign, token.LiteralNumber}},
		{"override with access", "override protected function f", []token.Kind{
			token.ModifierOverride, token.NamespaceAnnotation, token.KeywordFunction, token.Identifier}},
		{"namespace declaration", "namespace ns;", []token.Kind{token.ReservedNamespace, token.Identifier, token.Semicolon}},
		{"use namespace", "use namespace ns;", []token.Kind{token.KeywordUse, token.ReservedNamespace, token.Identifier, token.Semicolon}},
		{"namespace as variable", "namespace = 1", []token.Kind{token.Identifier, token.OperatorAssign, token.LiteralNumber}},
		{"each alone", "each(x)", []token.Kind{token.Identifier, token.ParenOpen, token.Identifier, token.ParenClose}},
		{"include as identifier", "include = 2", []token.Kind{token.Identifier, token.OperatorAssign, token.LiteralNumber}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectKinds(t, tt.src, tt.want...)
		})
	}
}

func TestStrictKeywordAsNameReported(t *testing.T) {
	toks, problems := tokenize(t, "var class = 1;")
	if toks[1].Kind != token.Identifier {
		t.Errorf("token 1 = %s, want identifier", toks[1].Kind)
	}
	if problems.Count(problem.UnexpectedToken) != 1 {
		t.Errorf("want one unexpected-token problem, got %v", problems.All())
	}

	_, problems = tokenize(t, "var each = 1;")
	if problems.Len() != 0 {
		t.Errorf("contextual word as name must not be reported: %v", problems.All())
	}
}

func TestSignedNumbers(t *testing.T) {
	toks := expectKinds(t, "x = -1", token.Identifier, token.OperatorAssign, token.LiteralNumber)
	if toks[2].Text != "-1" {
		t.Errorf("fused text = %q", toks[2].Text)
	}
	expectKinds(t, "a -1", token.Identifier, token.OperatorMinus, token.LiteralNumber)
	expectKinds(t, "(a) -1", token.ParenOpen, token.Identifier, token.ParenClose, token.OperatorMinus, token.LiteralNumber)
	expectKinds(t, "i++ +1", token.Identifier, token.OperatorIncrement, token.OperatorPlus, token.LiteralNumber)
	expectKinds(t, "return +5", token.KeywordReturn, token.LiteralNumber)
	expectKinds(t, "x = - 1", token.Identifier, token.OperatorAssign, token.OperatorMinus, token.LiteralNumber)
}

func TestFusedTokens(t *testing.T) {
	toks := expectKinds(t, "for each (var x in y)",
		token.KeywordForEach, token.ParenOpen, token.KeywordVar, token.Identifier,
		token.KeywordIn, token.Identifier, token.ParenClose)
	if toks[0].Text != "for each" || toks[0].Len() != len("for each") {
		t.Errorf("for each token = %s", toks[0].Debug())
	}

	expectKinds(t, "x = void 0", token.Identifier, token.OperatorAssign, token.Void0)
	expectKinds(t, "x = void(0)", token.Identifier, token.OperatorAssign, token.Void0)
	expectKinds(t, "void f()", token.KeywordVoid, token.Identifier, token.ParenOpen, token.ParenClose)

	toks = expectKinds(t, "default xml namespace = ns;",
		token.DirectiveDefaultXML, token.OperatorAssign, token.Identifier, token.Semicolon)
	if toks[0].Text != "default xml namespace" {
		t.Errorf("directive text = %q", toks[0].Text)
	}
	expectKinds(t, "default:", token.KeywordDefault, token.Colon)
}

func TestDefaultNamespaceDiagnostics(t *testing.T) {
	for _, src := range []string{"default namespace = ns;", "default html namespace = ns;"} {
		toks, problems := tokenize(t, src)
		if toks[0].Kind != token.DirectiveDefaultXML {
			t.Errorf("%q: first token = %s", src, toks[0].Kind)
		}
		if problems.Count(problem.InvalidDefaultNamespace) != 1 {
			t.Errorf("%q: problems = %v", src, problems.All())
		}
	}
}

func TestFusedTokensAreStable(t *testing.T) {
	for _, src := range []string{"for each", "void 0", "void(0)", "default xml namespace", "-42"} {
		first, _ := tokenize(t, src)
		if len(first) != 1 {
			t.Fatalf("%q: got %d tokens", src, len(first))
		}
		again, _ := tokenize(t, first[0].Text)
		if len(again) != 1 || again[0].Kind != first[0].Kind || again[0].Text != first[0].Text {
			t.Errorf("%q: re-tokenizing %q gave %v", src, first[0].Text, kindsOf(again))
		}
	}
}

func TestMetadataClassification(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want token.Kind
		at   int
	}{
		{"file start", "[Bindable] var x;", token.Attribute, 0},
		{"after semicolon", "x; [Bindable] var y;", token.Attribute, 2},
		{"after block open", "{ [Bindable] var y; }", token.Attribute, 1},
		{"array access", "a[0]", token.SquareOpen, 1},
		{"array literal", "x = [a]", token.SquareOpen, 2},
		{"array at statement start", "; [1, 2]", token.SquareOpen, 1},
		{"block close new line", "}\n[Bindable]", token.Attribute, 1},
		{"block close same line", "} [b]", token.SquareOpen, 1},
		{"after asdoc", "/** doc */ [Event(name=\"x\")]", token.Attribute, 1},
		{"invalid content", "; [Foo; bar]", token.SquareOpen, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _ := tokenize(t, tt.src)
			if got := toks[tt.at].Kind; got != tt.want {
				t.Errorf("token %d = %s, want %s (%v)", tt.at, got, tt.want, kindsOf(toks))
			}
		})
	}
}

func TestMetadataFragmentMode(t *testing.T) {
	opts := testOptions(source.NewMemoryProvider())
	opts.Fragment = true
	toks := New("frag", "[a]", opts).Drain()
	if toks[0].Kind != token.SquareOpen {
		t.Errorf("fragment start: %s", toks[0].Kind)
	}
}

func TestMetadataPayload(t *testing.T) {
	src := `[Event(name="click")]`
	toks, _ := tokenize(t, src)
	attr := toks[0]
	if attr.Kind != token.Attribute || attr.Text != src {
		t.Fatalf("attribute = %s", attr.Debug())
	}
	var parts []string
	for _, p := range attr.Payload {
		parts = append(parts, p.Text)
	}
	if got := strings.Join(parts, " "); got != "[ Event ( name click ) ]" {
		t.Errorf("payload = %q", got)
	}
}

func TestAccessNamespaces(t *testing.T) {
	expectKinds(t, "public::x", token.NamespaceName, token.DoubleColon, token.Identifier)
	expectKinds(t, "public function f", token.NamespaceAnnotation, token.KeywordFunction, token.Identifier)
}

func TestUserNamespaceAnnotation(t *testing.T) {
	toks := expectKinds(t, "mx_internal function f", token.NamespaceAnnotation, token.KeywordFunction, token.Identifier)
	if toks[0].Text != "mx_internal" {
		t.Errorf("text = %q", toks[0].Text)
	}
	toks = expectKinds(t, "a.b.ns var x", token.NamespaceAnnotation, token.KeywordVar, token.Identifier)
	if toks[0].Text != "a.b.ns" {
		t.Errorf("text = %q", toks[0].Text)
	}
	expectKinds(t, "ns\nvar x", token.Identifier, token.KeywordVar, token.Identifier)
	expectKinds(t, "x = ns", token.Identifier, token.OperatorAssign, token.Identifier)
}

func TestTokensAreLocked(t *testing.T) {
	tz := New("Test.as", "var x = 1;", testOptions(nil))
	for tok := tz.Next(); tok.Kind != token.EOF; tok = tz.Next() {
		if !tok.Locked() {
			t.Errorf("%s is not locked", tok.Debug())
		}
	}
}

func TestIncludeOffsets(t *testing.T) {
	files := map[string]string{
		"Main.as": "var a;\ninclude \"B.as\";\nvar c;",
		"B.as":    "var b;",
	}
	p := source.NewMemoryProvider()
	for name, content := range files {
		p.Add(name, content)
	}

	tz := New("Main.as", files["Main.as"], testOptions(p))
	toks := tz.Drain()
	if tz.Problems().Len() != 0 {
		t.Fatalf("problems: %v", tz.Problems().All())
	}

	var texts []string
	for _, tok := range toks {
		texts = append(texts, tok.Text)
	}
	if got := strings.Join(texts, " "); got != "var a ; var b ; ; var c ;" {
		t.Fatalf("tokens = %q", got)
	}

	lookup := tz.OffsetLookup()
	for i, tok := range toks {
		if i > 0 && tok.Start <= toks[i-1].Start {
			t.Errorf("offset not increasing at %s after %s", tok.Debug(), toks[i-1].Debug())
		}
		file, local, ok := lookup.Lookup(tok.Start)
		if !ok || file != tok.SourcePath {
			t.Errorf("%s maps to %s", tok.Debug(), file)
			continue
		}
		content := files[file]
		if local+len(tok.Text) > len(content) || content[local:local+len(tok.Text)] != tok.Text {
			t.Errorf("%s: local offset %d does not match %s", tok.Debug(), local, file)
		}
	}
}

func TestProblemsAfterIncludeAreAbsolute(t *testing.T) {
	main := "include \"inc.as\";\nvar class = 2;\nvar s = 'open"
	p := source.NewMemoryProvider()
	p.Add("Main.as", main)
	p.Add("inc.as", "var fromInclude:int = 1;\n")

	tz := New("Main.as", main, testOptions(p))
	tz.Drain()
	lookup := tz.OffsetLookup()

	tests := []struct {
		kind problem.Kind
		text string
	}{
		{problem.UnexpectedToken, "class"},
		{problem.UnterminatedLiteral, "'open"},
	}
	sorted := tz.Problems().Sorted()
	if len(sorted) != len(tests) {
		t.Fatalf("problems = %v", sorted)
	}
	for i, tt := range tests {
		pr := sorted[i]
		if pr.Kind != tt.kind {
			t.Errorf("problem %d kind = %s, want %s", i, pr.Kind, tt.kind)
		}
		file, local, ok := lookup.Lookup(pr.Start)
		if !ok || file != "Main.as" || local != strings.Index(main, tt.text) {
			t.Errorf("%s at %d maps to %s:%d, want Main.as:%d", tt.kind, pr.Start, file, local, strings.Index(main, tt.text))
		}
	}
}

func TestCyclicIncludeReportedOnce(t *testing.T) {
	p := source.NewMemoryProvider()
	p.Add("A.as", "include \"B.as\";\nvar a;")
	p.Add("B.as", "include \"A.as\";\nvar b;")

	tz := New("A.as", "include \"B.as\";\nvar a;", testOptions(p))
	toks := tz.Drain()
	if n := tz.Problems().Count(problem.CyclicInclude); n != 1 {
		t.Errorf("cyclic include problems = %d, want 1", n)
	}
	if len(toks) == 0 {
		t.Error("expected tokens from both files")
	}
}

func TestMissingIncludeContinues(t *testing.T) {
	tz := New("A.as", "include \"nope.as\"; var a;", testOptions(source.NewMemoryProvider()))
	toks := tz.Drain()
	if tz.Problems().Count(problem.IncludeNotFound) != 1 {
		t.Errorf("problems = %v", tz.Problems().All())
	}
	if kindsOf(toks)[1] != token.KeywordVar {
		t.Errorf("tokens = %v", kindsOf(toks))
	}
}

func TestIncludeNotFollowed(t *testing.T) {
	opts := testOptions(source.NewMemoryProvider())
	opts.FollowIncludes = false
	toks := New("A.as", `include "x.as";`, opts).Drain()
	got := kindsOf(toks)
	if len(got) != 3 || got[0] != token.ReservedInclude || got[1] != token.LiteralString {
		t.Errorf("tokens = %v", got)
	}
}

func TestBraceBalance(t *testing.T) {
	tests := []struct {
		src     string
		balance int
		ok      bool
	}{
		{"{ { } }", 0, true},
		{"{ { }", 1, false},
		{"{ } }", -1, true},
		{"x = '{'; // {", 0, true},
	}
	for _, tt := range tests {
		tz := New("T.as", tt.src, testOptions(nil))
		tz.Drain()
		if tz.BraceBalance() != tt.balance || tz.AreBracesBalancedOrOverbalanced() != tt.ok {
			t.Errorf("%q: balance %d ok=%v, want %d ok=%v", tt.src, tz.BraceBalance(),
				tz.AreBracesBalancedOrOverbalanced(), tt.balance, tt.ok)
		}
		if got := ScanBraceBalance(tt.src); got != tt.balance {
			t.Errorf("ScanBraceBalance(%q) = %d, want %d", tt.src, got, tt.balance)
		}
	}
}

func TestGetTokensReturnsClones(t *testing.T) {
	toks, problems, err := GetTokens("T.as", strings.NewReader("a + b"), testOptions(nil))
	if err != nil || problems.Len() != 0 {
		t.Fatalf("err=%v problems=%v", err, problems)
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens", len(toks))
	}
	for _, tok := range toks {
		if tok.Locked() {
			t.Errorf("%s should be an unlocked clone", tok.Debug())
		}
	}
}

// panickyProvider fails every existence check
type panickyProvider struct {
	*source.MemoryProvider
}

func (panickyProvider) Exists(string) bool {
	panic("provider failure")
}

func TestRecoveredPanicBecomesProblem(t *testing.T) {
	src := "var a;\ninclude \"x.as\"; var b;"
	p := panickyProvider{source.NewMemoryProvider()}
	tz := New("A.as", src, testOptions(p))
	toks := tz.Drain()
	if tz.Problems().Count(problem.InternalError) != 1 {
		t.Fatalf("problems = %v", tz.Problems().All())
	}
	if tz.Aborted() {
		t.Error("a single failure must not abort")
	}
	if len(toks) != 7 {
		t.Errorf("tokens after recovery = %v", kindsOf(toks))
	}

	pr := tz.Problems().All()[0]
	start := strings.Index(src, "\"x.as\"")
	if pr.Start != start || pr.End != start+len("\"x.as\"") || pr.Line != 2 || pr.Column != 9 {
		t.Errorf("internal error at [%d,%d) %d:%d, want the include string at [%d,%d) 2:9",
			pr.Start, pr.End, pr.Line, pr.Column, start, start+len("\"x.as\""))
	}
}

func TestRepeatedPanicAborts(t *testing.T) {
	p := panickyProvider{source.NewMemoryProvider()}
	tz := New("A.as", "include \"x.as\" include \"y.as\" var a;", testOptions(p))
	tz.Drain()
	if !tz.Aborted() {
		t.Fatal("same failure twice in a row should abort")
	}
	if tz.Next() != nil {
		t.Error("Next after abort should return nil")
	}
}
