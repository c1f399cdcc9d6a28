package parser

import (
	"strings"
	"testing"

	"github.com/apache/royale-compiler-sub012/internal/ast"
	"github.com/apache/royale-compiler-sub012/internal/buffer"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/source"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = aslog.Discard()
	return opts
}

func parse(t *testing.T, src string, mutate ...func(*Options)) *Result {
	t.Helper()
	opts := testOptions()
	for _, m := range mutate {
		m(&opts)
	}
	return ParseSource("Test.as", src, opts)
}

func arrayMode(o *Options) { o.BufferMode = buffer.ModeArray }

func countKind(problems []*problem.Problem, kind problem.Kind) int {
	n := 0
	for _, p := range problems {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func expectTree(t *testing.T, res *Result, want string) {
	t.Helper()
	if got := ast.SExpr(res.Root); got != want {
		t.Errorf("tree:\n got %s\nwant %s", got, want)
	}
}

func expectClean(t *testing.T, res *Result) {
	t.Helper()
	for _, p := range res.Problems {
		t.Errorf("unexpected problem: %s", p)
	}
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "(binary + a (binary * b c))"},
		{"a , b = c", "(binary , a (assign = b c))"},
		{"a * b + c", "(binary + (binary * a b) c)"},
		{"a - b - c", "(binary - (binary - a b) c)"},
		{"x = y = 1", "(assign = x (assign = y 1))"},
		{"a || b && c", "(binary || a (binary && b c))"},
		{"a | b ^ c & d", "(binary | a (binary ^ b (binary & c d)))"},
		{"a == b < c", "(binary == a (binary < b c))"},
		{"a << 1 + 2", "(binary << a (binary + 1 2))"},
		{"a in b", "(binary in a b)"},
		{"x is Foo && y as Bar", "(binary && (binary is x Foo) (binary as y Bar))"},
		{"a ? b : c = d", "(cond ? a b (assign = c d))"},
		{"-x * y", "(binary * (prefix - x) y)"},
		{"!a && b", "(binary && (prefix ! a) b)"},
		{"typeof x == \"s\"", "(binary == (prefix typeof x) \"s\")"},
		{"i++ + 1", "(binary + (postfix ++ i) 1)"},
		{"(a + b) * c", "(binary * (paren (binary + a b)) c)"},
		{"a += b", "(assign += a b)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := ParseExpressionText(tt.src, testOptions())
			expectTree(t, res, tt.want)
			expectClean(t, res)
		})
	}
}

func TestPrimaryAndMemberExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a.b(c)[0]", "(index (call (member a b) (args c)) 0)"},
		{"new Foo(1, 2)", "(new Foo (args 1 2))"},
		{"new a.B", "(new (member a B))"},
		{"new <int>[1, 2]", "(vector int 1 2)"},
		{"Vector.<String>", "(typed Vector String)"},
		{"x.@id", "(member x (attr id))"},
		{"x..item", "(descendant x item)"},
		{"x.(@id == 1)", "(filter x (binary == (attr id) 1))"},
		{"ns::name", "(ns-access ns name)"},
		{"flash.utils.flash_proxy::call", "(ns-access (qname flash.utils.flash_proxy) call)"},
		{"[1, , 2]", "(array 1 2)"},
		{"{a: 1, \"b\": 2}", "(object (field a 1) (field b 2))"},
		{"void 0", "void0"},
		{"this.x", "(member this x)"},
		{"'it\\'s'", "\"it's\""},
		{"function (a:int, ...rest):void {}", "(lambda (params (param a (type int)) (rest rest)) (type void) (block))"},
		{"function named() { return 1; }", "(lambda named (params) (block (return 1)))"},
		{"/ab+c/g.test(s)", "(call (member /ab+c/g test) (args s))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := ParseExpressionText(tt.src, testOptions())
			expectTree(t, res, tt.want)
			expectClean(t, res)
		})
	}
}

func TestSemicolonInsertion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"restricted return", "return\n1;", "(file (return) (expr 1))"},
		{"restricted increment", "a = b\n++c;", "(file (expr (assign = a b)) (expr (prefix ++ c)))"},
		{"after block", "{ x } y", "(file (block (expr x)) (expr y))"},
		{"line break", "a = 1\nb = 2", "(file (expr (assign = a 1)) (expr (assign = b 2)))"},
		{"before else", "if (a) b()\nelse c()", "(file (if a (expr (call b (args))) (expr (call c (args)))))"},
		{"break label on next line", "while (x) { break\nfoo }", "(file (while x (block (break) (expr foo))))"},
	}
	for _, tt := range tests {
		for _, mode := range []buffer.Mode{buffer.ModeStreaming, buffer.ModeArray} {
			t.Run(tt.name+"/"+mode.String(), func(t *testing.T) {
				res := parse(t, tt.src, func(o *Options) { o.BufferMode = mode })
				expectTree(t, res, tt.want)
				expectClean(t, res)
			})
		}
	}
}

func TestSemicolonPoliciesDiffer(t *testing.T) {
	const src = "x y"
	strict := parse(t, src)
	loose := parse(t, src, arrayMode)

	expectTree(t, strict, "(file (expr x) (expr y))")
	expectTree(t, loose, "(file (expr x) (expr y))")
	if got := countKind(strict.Problems, problem.UnexpectedToken); got != 1 {
		t.Errorf("streaming mode: %d unexpected-token problems, want 1", got)
	}
	expectClean(t, loose)
}

func TestForHeadClassification(t *testing.T) {
	long := "for (o" + strings.Repeat("[a+b]", 120) + " in obj) {}"
	tests := []struct {
		name string
		src  string
		kind ast.Kind
	}{
		{"for-in head longer than the rewind limit", long, ast.KindForIn},
		{"in inside parentheses", "for (var i = (\"x\" in o) ? 1 : 0; i < 2; i++) {}", ast.KindFor},
		{"in inside brackets", "for (x = [a in b]; x; x = null) {}", ast.KindFor},
		{"in inside a function body", "for (f = function() { for (k in o) {} }; f; f = null) {}", ast.KindFor},
		{"member head", "for (this.k in o) {}", ast.KindForIn},
	}

	for _, tt := range tests {
		for name, mode := range map[string]func(*Options){"streaming": func(*Options) {}, "array": arrayMode} {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				res := parse(t, tt.src, mode)
				expectClean(t, res)
				if got := res.Root.Child(0).Kind; got != tt.kind {
					t.Errorf("statement kind = %v, want %v", got, tt.kind)
				}
			})
		}
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"for", "for (i = 0; i < n; i++) {}", "(file (for (assign = i 0) (binary < i n) (postfix ++ i) (block)))"},
		{"for empty", "for (;;) break;", "(file (for (empty) (empty) (empty) (break)))"},
		{"for var", "for (var i:int = 0; i < 3; ++i) f(i);",
			"(file (for (vars var (var i (type int) 0)) (binary < i 3) (prefix ++ i) (expr (call f (args i)))))"},
		{"for in", "for (var k in o) {}", "(file (for-in (vars var (var k)) o (block)))"},
		{"for in expression", "for (k in o) {}", "(file (for-in k o (block)))"},
		{"for each", "for each (var v:String in list) trace(v);",
			"(file (for-each (vars var (var v (type String))) list (expr (call trace (args v)))))"},
		{"do while", "do { x++; } while (x < 3)", "(file (do (block (expr (postfix ++ x))) (binary < x 3)))"},
		{"switch", "switch (x) { case 1: a(); break; default: b(); }",
			"(file (switch x (case 1 (expr (call a (args))) (break)) (default (expr (call b (args))))))"},
		{"try", "try { a(); } catch (e:Error) { b(); } finally { c(); }",
			"(file (try (block (expr (call a (args)))) (catch (param e (type Error)) (block (expr (call b (args))))) (finally (block (expr (call c (args)))))))"},
		{"throw", "throw new Error(\"x\");", "(file (throw (new Error (args \"x\"))))"},
		{"labeled", "outer: for (;;) { continue outer; }",
			"(file (label outer (for (empty) (empty) (empty) (block (continue outer)))))"},
		{"with", "with (o) { x = 1; }", "(file (with o (block (expr (assign = x 1)))))"},
		{"import", "import flash.events.Event;\nimport mx.core.*;", "(file (import flash.events.Event) (import mx.core.*))"},
		{"use namespace", "use namespace mx_internal;", "(file (use mx_internal))"},
		{"default xml namespace", "default xml namespace = ns;", "(file (default-xml-namespace ns))"},
		{"empty", ";", "(file (empty))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.src)
			expectTree(t, res, tt.want)
			expectClean(t, res)
		})
	}
}

func TestDefinitions(t *testing.T) {
	src := `package a.b {
	import flash.events.Event;
	public class C extends D implements E, F {
		private static const N:int = 1;
		public function get y():int { return N; }
		public function set y(v:int):void {}
		protected function f(a:String = "x", ...rest):void;
	}
}`
	res := parse(t, src)
	expectClean(t, res)
	expectTree(t, res, "(file (package a.b (import flash.events.Event) "+
		"(class C (extends D) (implements E F) (block "+
		"(vars const (const N (type int) 1)) "+
		"(getter y (params) (type int) (block (return N))) "+
		"(setter y (params (param v (type int))) (type void) (block)) "+
		"(function f (params (param a (type String) \"x\") (rest rest)) (type void))))))")

	constants := ast.Collect(res.Root, ast.KindVariables)
	if len(constants) != 1 {
		t.Fatalf("got %d variable definitions, want 1", len(constants))
	}
	c := constants[0]
	if c.Namespace != "private" || !c.HasModifier("static") {
		t.Errorf("namespace %q modifiers %v", c.Namespace, c.Modifiers)
	}
}

func TestInterface(t *testing.T) {
	res := parse(t, "interface I extends A, B { function m():void; }")
	expectClean(t, res)
	expectTree(t, res, "(file (interface I (extends A B) (block (function m (params) (type void)))))")
}

func TestNestedPackageRejected(t *testing.T) {
	res := parse(t, "package a { package b {} }")
	if got := countKind(res.Problems, problem.SyntaxError); got != 1 {
		t.Errorf("got %d syntax errors, want 1: %v", got, res.Problems)
	}
}

func TestPackageInsideFunctionRejected(t *testing.T) {
	res := parse(t, "function f() { package p {} }")
	if got := countKind(res.Problems, problem.SyntaxError); got != 1 {
		t.Errorf("got %d syntax errors, want 1: %v", got, res.Problems)
	}
}

func TestKeywordRetypedAsIdentifier(t *testing.T) {
	res := parse(t, "var x = class;")
	expectTree(t, res, "(file (vars var (var x class)))")
	if got := countKind(res.Problems, problem.UnexpectedToken); got != 1 {
		t.Errorf("got %d unexpected-token problems, want 1: %v", got, res.Problems)
	}
}

func TestNoRetypeWhenClosingExpected(t *testing.T) {
	res := parse(t, "f(a if")
	if len(res.Problems) == 0 {
		t.Fatal("expected problems")
	}
	for _, n := range ast.Collect(res.Root, ast.KindIdentifier) {
		if n.Text == "if" {
			t.Errorf("'if' was retyped while ')' was expected")
		}
	}
}

func TestRepairAlwaysProgresses(t *testing.T) {
	inputs := []string{
		") ) )",
		"var = ;",
		"function (",
		"class {",
		"if (",
		"a.b.",
		"x = [1, 2",
		"{ { {",
		"} } }",
		"for (var i in",
		"new",
		"switch (x) { foo(); case",
		"a ? b",
		"<a><b>",
	}
	for _, src := range inputs {
		for _, mode := range []buffer.Mode{buffer.ModeStreaming, buffer.ModeArray} {
			t.Run(src+"/"+mode.String(), func(t *testing.T) {
				res := parse(t, src, func(o *Options) { o.BufferMode = mode })
				if res.Root == nil {
					t.Fatal("no tree")
				}
				if len(res.Problems) == 0 {
					t.Errorf("%q parsed without problems", src)
				}
			})
		}
	}
}

func TestMetadataAttachment(t *testing.T) {
	src := "[Bindable]\n/** The x. */\npublic var x:int;\n[Event(name=\"click\")]\n"
	res := parse(t, src)
	expectTree(t, res, "(file (vars var (var x (type int))) (orphan-metadata))")

	vars := res.Root.Child(0)
	if len(vars.Meta) != 1 || vars.Meta[0].Name != "Bindable" {
		t.Errorf("meta = %v", vars.Meta)
	}
	if !strings.Contains(vars.Doc, "The x.") {
		t.Errorf("doc = %q", vars.Doc)
	}
	orphan := res.Root.Child(1)
	if len(orphan.Meta) != 1 || orphan.Meta[0].Name != "Event" {
		t.Errorf("orphan meta = %v", orphan.Meta)
	}
	if got := countKind(res.Problems, problem.UnboundMetadata); got != 1 {
		t.Errorf("got %d unbound-metadata problems, want 1", got)
	}
}

func TestMetadataOnDefinitionsWithBodies(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    ast.Kind
		tag     string
		doc     string
		members []ast.Kind
	}{
		{
			name:    "class",
			src:     "/** A button. */\n[Event(name=\"click\")]\npublic class Foo {\n  var a:int;\n  function g():void {}\n}",
			kind:    ast.KindClass,
			tag:     "Event",
			doc:     "A button.",
			members: []ast.Kind{ast.KindVariables, ast.KindFunction},
		},
		{
			name:    "function",
			src:     "[Inline]\nfunction f():int {\n  var b = 1;\n  return b;\n}",
			kind:    ast.KindFunction,
			tag:     "Inline",
			members: []ast.Kind{ast.KindVariables},
		},
		{
			name:    "interface",
			src:     "/** Sizes. */\n[Deprecated]\ninterface ISize {\n  function size():int;\n}",
			kind:    ast.KindInterface,
			tag:     "Deprecated",
			doc:     "Sizes.",
			members: []ast.Kind{ast.KindFunction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.src)
			expectClean(t, res)

			def := res.Root.Child(0)
			if def.Kind != tt.kind {
				t.Fatalf("first child is %v, want %v", def.Kind, tt.kind)
			}
			if len(def.Meta) != 1 || def.Meta[0].Name != tt.tag {
				t.Errorf("definition meta = %v, want [%s]", def.Meta, tt.tag)
			}
			if tt.doc != "" && !strings.Contains(def.Doc, tt.doc) {
				t.Errorf("definition doc = %q, want %q", def.Doc, tt.doc)
			}
			for _, member := range ast.Collect(def, tt.members...) {
				if member == def {
					continue
				}
				if len(member.Meta) != 0 || member.Doc != "" {
					t.Errorf("member %v took outer decoration: meta=%v doc=%q", member.Kind, member.Meta, member.Doc)
				}
			}
			if n := len(ast.Collect(res.Root, ast.KindOrphanMetadata)); n != 0 {
				t.Errorf("got %d orphan nodes, want 0", n)
			}
		})
	}
}

func TestMemberMetadataStaysOnMember(t *testing.T) {
	res := parse(t, "[Event(name=\"change\")]\nclass C {\n  [Bindable]\n  public var a:int;\n}")
	expectClean(t, res)

	class := res.Root.Child(0)
	if len(class.Meta) != 1 || class.Meta[0].Name != "Event" {
		t.Errorf("class meta = %v", class.Meta)
	}
	vars := ast.Collect(class, ast.KindVariables)
	if len(vars) != 1 || len(vars[0].Meta) != 1 || vars[0].Meta[0].Name != "Bindable" {
		t.Errorf("member meta = %v", vars)
	}
}

func TestMetadataBeforeStatementIsOrphaned(t *testing.T) {
	res := parse(t, "function f() {\n[Inspectable]\ntrace(1);\n}")
	if got := countKind(res.Problems, problem.UnboundMetadata); got != 1 {
		t.Errorf("got %d unbound-metadata problems, want 1", got)
	}
	if n := len(ast.Collect(res.Root, ast.KindOrphanMetadata)); n != 1 {
		t.Errorf("got %d orphan nodes, want 1", n)
	}
}

func TestEmbedValidation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"class", "[Embed(source=\"a.png\")]\nvar icon:Class;", 0},
		{"string", "[Embed(source=\"a.txt\", mimeType=\"application/octet-stream\")]\nvar text:String;", 0},
		{"initializer and type", "[Embed(source=\"b.png\")]\nvar bad:int = 3;", 2},
		{"untyped", "[Embed(source=\"b.png\")]\nvar bad;", 1},
		{"two tags", "[Embed(source=\"a.png\")]\n[Embed(source=\"b.png\")]\nvar icon:Class;", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.src)
			if got := countKind(res.Problems, problem.InvalidEmbed); got != tt.want {
				t.Errorf("got %d invalid-embed problems, want %d: %v", got, tt.want, res.Problems)
			}
		})
	}
}

func TestConditionalCompilation(t *testing.T) {
	src := `CONFIG::DEBUG {
	var a = 1;
}
CONFIG::RELEASE {
	var b = 2;
}
CONFIG::RELEASE function f() {}
CONFIG::DEBUG function g() {}
var c = CONFIG::DEBUG;
`
	res := parse(t, src, func(o *Options) {
		o.Defines = []Define{
			{Namespace: "CONFIG", Name: "DEBUG", Value: "true"},
			{Namespace: "CONFIG", Name: "RELEASE", Value: "!CONFIG::DEBUG"},
		}
	})
	expectClean(t, res)
	expectTree(t, res, "(file (config-block CONFIG::DEBUG (vars var (var a 1))) "+
		"(config-block CONFIG::RELEASE) "+
		"(function g (params) (block)) "+
		"(vars var (var c (config CONFIG::DEBUG))))")

	c := ast.Collect(res.Root, ast.KindConfigExpression)[0]
	if c.Value != true {
		t.Errorf("CONFIG::DEBUG folded to %v", c.Value)
	}
	if len(res.Constants) != 2 {
		t.Errorf("constants = %v", res.Constants)
	}
}

func TestConfigNamespaceDeclaredInSource(t *testing.T) {
	src := "config namespace FOO;\nFOO const X = true;\nFOO::X {\n\tvar a;\n}\n"
	res := parse(t, src)
	expectClean(t, res)
	expectTree(t, res, "(file (config-namespace FOO) (vars const (const X true)) (config-block FOO::X (vars var (var a))))")
	if len(res.Constants) != 1 || res.Constants[0].Name != "X" || res.Constants[0].Value != true {
		t.Errorf("constants = %v", res.Constants)
	}
}

func TestConfigNamespaceMustBeGlobal(t *testing.T) {
	res := parse(t, "function f() { config namespace FOO; }")
	if got := countKind(res.Problems, problem.SyntaxError); got != 1 {
		t.Errorf("got %d syntax errors, want 1: %v", got, res.Problems)
	}
}

func TestUnknownConfigConstantReported(t *testing.T) {
	res := parse(t, "var x = CONFIG::MISSING;", func(o *Options) {
		o.Defines = []Define{{Name: "DEBUG", Value: "false"}}
	})
	if got := countKind(res.Problems, problem.ConfigEvaluation); got != 1 {
		t.Errorf("got %d config-evaluation problems, want 1: %v", got, res.Problems)
	}
}

func TestXMLLiterals(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		tree     string
		mismatch int
		unclosed int
	}{
		{"element", "var x = <a id=\"1\">hi<b/></a>;",
			"(file (vars var (var x (xml (element a (attr id \"1\") (text hi) (element b))))))", 0, 0},
		{"binding", "var x = <a>{v}</a>;",
			"(file (vars var (var x (xml (element a (binding v))))))", 0, 0},
		{"list", "var x = <><a/><b/></>;",
			"(file (vars var (var x (xml-list (element a) (element b)))))", 0, 0},
		{"mismatch", "var x = <a><b></c></a>;",
			"(file (vars var (var x (xml (element a (element b))))))", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parse(t, tt.src)
			expectTree(t, res, tt.tree)
			if got := countKind(res.Problems, problem.XMLTagMismatch); got != tt.mismatch {
				t.Errorf("mismatch problems = %d, want %d", got, tt.mismatch)
			}
			if got := countKind(res.Problems, problem.XMLUnclosedTag); got != tt.unclosed {
				t.Errorf("unclosed problems = %d, want %d", got, tt.unclosed)
			}
		})
	}
}

func TestXMLUnclosedTags(t *testing.T) {
	res := parse(t, "x = <a><b/>")
	if got := countKind(res.Problems, problem.XMLUnclosedTag); got != 1 {
		t.Errorf("unclosed problems = %d, want 1: %v", got, res.Problems)
	}
}

func TestDeferredFunctionBodies(t *testing.T) {
	src := "function f() { if (x) { y(); } }\nvar z;"
	res := parse(t, src, func(o *Options) {
		o.DeferFunctionBodies = true
		o.CaptureDeferredText = true
	})
	expectClean(t, res)
	expectTree(t, res, "(file (function f (params) (deferred)) (vars var (var z)))")

	fn := res.Root.Child(0)
	if fn.Body == nil {
		t.Fatal("no body span")
	}
	if want := "{ if (x) { y(); } }"; !fn.Body.HasText || fn.Body.Text != want {
		t.Errorf("body text = %q (%v), want %q", fn.Body.Text, fn.Body.HasText, want)
	}
	if fn.Body.Start != strings.Index(src, "{") || fn.Body.End != strings.Index(src, "\n") {
		t.Errorf("body span = [%d,%d)", fn.Body.Start, fn.Body.End)
	}
}

func TestDeferredBodyUnterminated(t *testing.T) {
	res := parse(t, "function f() { if (x) {", func(o *Options) { o.DeferFunctionBodies = true })
	if got := countKind(res.Problems, problem.MissingToken); got != 1 {
		t.Errorf("missing-token problems = %d, want 1: %v", got, res.Problems)
	}
}

func TestDeferredBodyWithIncludeHasNoText(t *testing.T) {
	mem := source.NewMemoryProvider()
	mem.Add("A.as", "function f() {\ninclude \"B.as\"\n}")
	mem.Add("B.as", "x();")
	opts := testOptions()
	opts.Provider = mem
	opts.DeferFunctionBodies = true
	opts.CaptureDeferredText = true
	res, err := ParseFile("A.as", opts)
	if err != nil {
		t.Fatal(err)
	}
	fn := res.Root.Child(0)
	if fn.Body == nil || fn.Body.HasText {
		t.Errorf("body = %+v, want span without text", fn.Body)
	}
}

func TestIncludeExpansion(t *testing.T) {
	mem := source.NewMemoryProvider()
	mem.Add("A.as", "include \"B.as\"\nvar a;")
	mem.Add("B.as", "var b;")
	opts := testOptions()
	opts.Provider = mem
	res, err := ParseFile("A.as", opts)
	if err != nil {
		t.Fatal(err)
	}
	expectClean(t, res)
	expectTree(t, res, "(file (vars var (var b)) (vars var (var a)))")
	if len(res.Cues) < 2 {
		t.Errorf("cues = %v", res.Cues)
	}
	b := res.Root.Child(0)
	if file, local, ok := res.Lookup.Lookup(b.Start); !ok || file != "B.as" || local != 0 {
		t.Errorf("lookup(%d) = %s %d %v", b.Start, file, local, ok)
	}
}

func TestProblemsAfterIncludeShareOffsetSpace(t *testing.T) {
	main := "include \"inc.as\";\nvar class = 2;\nvar y = );"
	mem := source.NewMemoryProvider()
	mem.Add("Main.as", main)
	mem.Add("inc.as", "// included helpers\nvar fromInclude:int = 1;\n")
	for _, mode := range []func(*Options){func(*Options) {}, arrayMode} {
		opts := testOptions()
		opts.Provider = mem
		mode(&opts)
		res, err := ParseFile("Main.as", opts)
		if err != nil {
			t.Fatal(err)
		}

		at := map[string]int{}
		for i, pr := range res.Problems {
			if pr.Text != "class" && pr.Text != ")" {
				continue
			}
			if _, dup := at[pr.Text]; dup {
				t.Errorf("%s reported twice: %v", pr.Text, res.Problems)
			}
			at[pr.Text] = i
			file, local, ok := res.Lookup.Lookup(pr.Start)
			if !ok || file != "Main.as" || local != strings.Index(main, pr.Text) {
				t.Errorf("%s at %d maps to %s:%d, want Main.as:%d", pr.Text, pr.Start, file, local, strings.Index(main, pr.Text))
			}
		}
		kw, paren := at["class"], at[")"]
		if len(at) != 2 {
			t.Fatalf("problems = %v", res.Problems)
		}
		if kw > paren || res.Problems[kw].Start >= res.Problems[paren].Start {
			t.Errorf("tokenizer and parser problems out of order: %v", res.Problems)
		}
	}
}

func TestParseFileMissing(t *testing.T) {
	opts := testOptions()
	opts.Provider = source.NewMemoryProvider()
	_, err := ParseFile("Nope.as", opts)
	if err == nil {
		t.Fatal("expected an error")
	}
	if aserror.GetCode(err) != aserror.CodeIO {
		t.Errorf("code = %s", aserror.GetCode(err))
	}
}

func TestKeepTokensAndComments(t *testing.T) {
	res := parse(t, "// lead\nvar a; /* b */", func(o *Options) {
		o.KeepTokens = true
		o.CollectComments = true
	})
	expectClean(t, res)
	if len(res.Comments) != 2 {
		t.Errorf("comments = %v", res.Comments)
	}
	if len(res.Tokens) != 5 {
		t.Errorf("got %d tokens, want 5", len(res.Tokens))
	}
}

func TestSpansCoverSource(t *testing.T) {
	src := "var total = price * (1 + rate);"
	res := parse(t, src)
	ast.Inspect(res.Root, func(n *ast.Node) bool {
		if n.Start < 0 || n.End > len(src) || n.Start > n.End {
			t.Errorf("%s has span [%d,%d)", n.Kind, n.Start, n.End)
		}
		for _, c := range n.Children {
			if c.Start < n.Start || c.End > n.End {
				t.Errorf("%s [%d,%d) escapes parent %s [%d,%d)", c.Kind, c.Start, c.End, n.Kind, n.Start, n.End)
			}
		}
		return true
	})
	paren := ast.Collect(res.Root, ast.KindParenthesized)[0]
	if got := src[paren.Start:paren.End]; got != "(1 + rate)" {
		t.Errorf("paren span covers %q", got)
	}
}

func TestSessionIDs(t *testing.T) {
	a := parse(t, "x;")
	b := parse(t, "x;")
	if a.SessionID == "" || a.SessionID == b.SessionID {
		t.Errorf("session ids %q %q", a.SessionID, b.SessionID)
	}
}
