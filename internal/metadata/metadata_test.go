package metadata

import (
	"strings"
	"testing"

	"github.com/apache/royale-compiler-sub012/internal/problem"
	"github.com/apache/royale-compiler-sub012/internal/token"
)

type fakeResolver map[string]string

func (f fakeResolver) ResolveMetadataValue(ns, name string) (string, bool) {
	v, ok := f[ns+"::"+name]
	return v, ok
}

func attribute(text string) *token.Token {
	return token.New(token.Attribute, text, 0, len(text), 1, 1)
}

func texts(toks []*token.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func TestTokenizeEvent(t *testing.T) {
	payload := NewTokenizer(nil, nil).Tokenize(attribute(`[Event(name="click")]`))

	if got := texts(payload); got != "[ Event ( name click ) ]" {
		t.Errorf("payload = %q", got)
	}
	want := []token.Kind{
		token.MetaOpenBracket, token.MetaKeyword, token.MetaOpenParen,
		token.MetaAttrName, token.MetaString, token.MetaCloseParen, token.MetaCloseBracket,
	}
	if len(payload) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(payload), len(want))
	}
	for i, k := range want {
		if payload[i].Kind != k {
			t.Errorf("token %d = %s, want %s", i, payload[i].Kind, k)
		}
	}
}

func TestTokenizeUnknownAndPositional(t *testing.T) {
	payload := NewTokenizer(nil, nil).Tokenize(attribute(`[Custom("a", 3, type=flash.events.Event)]`))
	if payload[1].Kind != token.MetaUnknownKeyword {
		t.Errorf("name kind = %s", payload[1].Kind)
	}
	if got := texts(payload); got != "[ Custom ( a 3 type flash.events.Event ) ]" {
		t.Errorf("payload = %q", got)
	}
}

func TestOffsetsFollowAttribute(t *testing.T) {
	attr := token.New(token.Attribute, `[Bindable]`, 40, 50, 3, 5)
	payload := NewTokenizer(nil, nil).Tokenize(attr)
	if payload[1].Start != 41 || payload[1].Line != 3 || payload[1].Column != 6 {
		t.Errorf("name token = %s", payload[1].Debug())
	}
}

func TestCollapseQualifiedValue(t *testing.T) {
	resolver := fakeResolver{"CONFIG::VERSION": "1.2"}
	payload := NewTokenizer(resolver, nil).Tokenize(attribute(`[Version(value=CONFIG::VERSION, other=NS::X)]`))

	got := texts(payload)
	if got != "[ Version ( value 1.2 other NS :: X ) ]" {
		t.Errorf("payload = %q", got)
	}
	if payload[4].Kind != token.MetaString {
		t.Errorf("collapsed value kind = %s", payload[4].Kind)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		src   string
		name  string
		known bool
		attrs []Attribute
	}{
		{`[Bindable]`, "Bindable", true, nil},
		{`[Bindable("change")]`, "Bindable", true, []Attribute{{Value: "change"}}},
		{`[Embed(source="a.png", mimeType='image/png')]`, "Embed", true,
			[]Attribute{{Key: "source", Value: "a.png"}, {Key: "mimeType", Value: "image/png"}}},
		{`[Foo(bar)]`, "Foo", false, []Attribute{{Value: "bar"}}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			problems := problem.NewList()
			tag := Parse(NewTokenizer(nil, problems).Tokenize(attribute(tt.src)), problems)
			if tag == nil {
				t.Fatal("Parse returned nil")
			}
			if tag.Name != tt.name || tag.Known != tt.known {
				t.Errorf("tag = %s known=%v", tag.Name, tag.Known)
			}
			if len(tag.Attributes) != len(tt.attrs) {
				t.Fatalf("attributes = %v, want %v", tag.Attributes, tt.attrs)
			}
			for i, a := range tt.attrs {
				if tag.Attributes[i] != a {
					t.Errorf("attribute %d = %v, want %v", i, tag.Attributes[i], a)
				}
			}
			if problems.Len() != 0 {
				t.Errorf("unexpected problems: %v", problems.All())
			}
			if tag.End != len(tt.src) {
				t.Errorf("tag end = %d, want %d", tag.End, len(tt.src))
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	problems := problem.NewList()
	tag := Parse(NewTokenizer(nil, problems).Tokenize(attribute(`[Event(name="x"`)), problems)
	if tag == nil || tag.Name != "Event" {
		t.Fatalf("tag = %v", tag)
	}
	if problems.Count(problem.MalformedMetadata) == 0 {
		t.Error("expected a malformed metadata problem")
	}
}

func TestTagValueAndString(t *testing.T) {
	tag := &Tag{Name: "Event", Attributes: []Attribute{{Key: "name", Value: "click"}, {Key: "type", Value: "MouseEvent"}}}
	if v, ok := tag.Value("type"); !ok || v != "MouseEvent" {
		t.Errorf("Value(type) = %q, %v", v, ok)
	}
	if _, ok := tag.Value("missing"); ok {
		t.Error("Value(missing) should not be found")
	}
	if got := tag.String(); got != `[Event(name="click", type="MouseEvent")]` {
		t.Errorf("String() = %q", got)
	}
}
