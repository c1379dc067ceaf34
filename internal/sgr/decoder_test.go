package sgr

import (
	"reflect"
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func decodeAll(chunks ...string) []Part {
	d := NewDecoder()
	var out []Part
	for _, c := range chunks {
		out = append(out, d.Add(c)...)
	}
	return out
}

func styleChanges(parts []Part) []AttributeSet {
	var out []AttributeSet
	for _, p := range parts {
		if p.Kind == PartStyleChange {
			out = append(out, p.Attrs)
		}
	}
	return out
}

func TestDecoder_PlainTextIsOnePart(t *testing.T) {
	for _, s := range []string{"a", "hello world", "line1\nline2\r\n", "tab\there", "ünïcödé ✓"} {
		got := NewDecoder().Add(s)
		if len(got) != 1 || got[0].Kind != PartText || got[0].Text != s {
			t.Fatalf("Add(%q) = %v, want one Text part", s, got)
		}
	}
	if got := NewDecoder().Add(""); len(got) != 0 {
		t.Fatalf("Add(\"\") = %v, want no parts", got)
	}
}

func TestDecoder_Reset(t *testing.T) {
	for _, in := range []string{"\x1b[0m", "\x1b[m"} {
		got := decodeAll(in)
		if len(got) != 1 || !reflect.DeepEqual(got[0].Attrs, AttributeSet{Reset}) {
			t.Fatalf("%q: got %v, want StyleChange{reset}", in, got)
		}
	}
}

func TestDecoder_MergeAcrossCategories(t *testing.T) {
	sc := styleChanges(decodeAll("\x1b[1m\x1b[31m"))
	if len(sc) != 2 {
		t.Fatalf("expected 2 style changes, got %v", sc)
	}
	if !reflect.DeepEqual(sc[0], AttributeSet{Bold}) {
		t.Fatalf("first: %v", sc[0])
	}
	if !reflect.DeepEqual(sc[1], AttributeSet{Bold, "foreground-red"}) {
		t.Fatalf("second: %v", sc[1])
	}
}

func TestDecoder_SameCategoryReplacesInPlace(t *testing.T) {
	sc := styleChanges(decodeAll("\x1b[31m\x1b[32m"))
	if len(sc) != 2 || !reflect.DeepEqual(sc[1], AttributeSet{"foreground-green"}) {
		t.Fatalf("got %v", sc)
	}
	sc = styleChanges(decodeAll("\x1b[31;1;4m\x1b[34m"))
	want := AttributeSet{"foreground-blue", Bold, Underline}
	if !reflect.DeepEqual(sc[1], want) {
		t.Fatalf("position not preserved: got %v, want %v", sc[1], want)
	}
}

func TestDecoder_StyleChangeIsACopy(t *testing.T) {
	parts := decodeAll("\x1b[1m", "\x1b[31m")
	if !reflect.DeepEqual(parts[0].Attrs, AttributeSet{Bold}) {
		t.Fatalf("earlier part mutated by later merge: %v", parts[0].Attrs)
	}
}

func TestDecoder_Scenario(t *testing.T) {
	got := decodeAll("hello \x1b[1mworld\x1b[0m!")
	want := []Part{
		Text("hello "),
		StyleChange(Bold),
		Text("world"),
		StyleChange(Reset),
		Text("!"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v\nwant %v", got, want)
	}
}

func TestDecoder_SplitAnywhere(t *testing.T) {
	inputs := []string{
		"hello \x1b[1mworld\x1b[0m!",
		"\x1b[38;5;208morange\x1b[39m plain \x1b[48;2;1;2;3mrgb\x1b[m",
		"a\x1b[2Jb\x1b[1;31mc\x1b[22md",
		"\x1b\x1b[1mx\x1bzy",
	}
	for _, in := range inputs {
		whole := decodeAll(in)
		for cut := 0; cut <= len(in); cut++ {
			split := decodeAll(in[:cut], in[cut:])
			if TextOf(split) != TextOf(whole) {
				t.Fatalf("%q cut at %d: text %q, want %q", in, cut, TextOf(split), TextOf(whole))
			}
			if !reflect.DeepEqual(styleChanges(split), styleChanges(whole)) {
				t.Fatalf("%q cut at %d: styles %v, want %v", in, cut, styleChanges(split), styleChanges(whole))
			}
		}
		bytewise := make([]string, len(in))
		for i := range in {
			bytewise[i] = in[i : i+1]
		}
		if got := TextOf(decodeAll(bytewise...)); got != TextOf(whole) {
			t.Fatalf("%q byte at a time: %q", in, got)
		}
	}
}

func TestDecoder_TextMatchesStripped(t *testing.T) {
	in := "\x1b[1;32mok\x1b[0m build \x1b[33mwarn\x1b[K\x1b[0m done\n"
	if got, want := TextOf(decodeAll(in)), xansi.Strip(in); got != want {
		t.Fatalf("text %q, want %q", got, want)
	}
}

func TestDecoder_PendingAcrossCalls(t *testing.T) {
	d := NewDecoder()
	if got := d.Add("abc\x1b[3"); len(got) != 1 || got[0].Text != "abc" {
		t.Fatalf("first call: %v", got)
	}
	if d.Pending() != "\x1b[3" {
		t.Fatalf("pending = %q", d.Pending())
	}
	got := d.Add("1mred")
	want := []Part{StyleChange("foreground-red"), Text("red")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("second call: %v", got)
	}
	if d.Pending() != "" {
		t.Fatalf("pending not cleared: %q", d.Pending())
	}
}

func TestDecoder_MalformedParameterSkipped(t *testing.T) {
	sc := styleChanges(decodeAll("\x1b[1;4?;31m"))
	want := AttributeSet{Bold, "foreground-red"}
	if len(sc) != 1 || !reflect.DeepEqual(sc[0], want) {
		t.Fatalf("got %v, want %v", sc, want)
	}
	sc = styleChanges(decodeAll("\x1b[99999999999999999999;1m"))
	if len(sc) != 1 || !reflect.DeepEqual(sc[0], AttributeSet{Bold}) {
		t.Fatalf("overflowing parameter: %v", sc)
	}
}

func TestDecoder_UnknownCodesIgnored(t *testing.T) {
	sc := styleChanges(decodeAll("\x1b[1m\x1b[73m"))
	if !reflect.DeepEqual(sc[1], AttributeSet{Bold}) {
		t.Fatalf("got %v", sc[1])
	}
	// nothing active and nothing recognised: no marker at all, so "reset"
	// keeps meaning an explicit clear
	for _, in := range []string{"\x1b[73m", "\x1b[38m", "\x1b[4?m"} {
		if got := decodeAll(in); len(got) != 0 {
			t.Fatalf("decodeAll(%q) = %v, want no parts", in, got)
		}
	}
	got := decodeAll("a\x1b[73mb")
	if len(got) != 1 || got[0].Kind != PartText || got[0].Text != "ab" {
		t.Fatalf("text around an ignored sequence should stay one run, got %v", got)
	}
	sc = styleChanges(decodeAll("\x1b[73;0m"))
	if len(sc) != 1 || !reflect.DeepEqual(sc[0], AttributeSet{Reset}) {
		t.Fatalf("explicit 0 must still reset, got %v", sc)
	}
}

func TestDecoder_OffCodes(t *testing.T) {
	sc := styleChanges(decodeAll("\x1b[1;2;3;31;42m\x1b[22;39m"))
	want := AttributeSet{Italic, "background-green"}
	if !reflect.DeepEqual(sc[1], want) {
		t.Fatalf("got %v, want %v", sc[1], want)
	}
	sc = styleChanges(decodeAll("\x1b[4m\x1b[24m"))
	if !reflect.DeepEqual(sc[1], AttributeSet{Reset}) {
		t.Fatalf("got %v", sc[1])
	}
}

func TestDecoder_ExtendedColors(t *testing.T) {
	sc := styleChanges(decodeAll("\x1b[38;5;208;48;2;10;20;30;1m"))
	want := AttributeSet{"foreground-256-208", "background-rgb-10-20-30", Bold}
	if !reflect.DeepEqual(sc[0], want) {
		t.Fatalf("got %v, want %v", sc[0], want)
	}
	// the malformed index must not leak out as "blink"
	sc = styleChanges(decodeAll("\x1b[38;5;x;1m"))
	if !reflect.DeepEqual(sc[0], AttributeSet{Bold}) {
		t.Fatalf("got %v", sc[0])
	}
	sc = styleChanges(decodeAll("\x1b[91;107m"))
	if !reflect.DeepEqual(sc[0], AttributeSet{"foreground-bright-red", "background-bright-white"}) {
		t.Fatalf("got %v", sc[0])
	}
}

func TestDecoder_NonSGRSequencesDropped(t *testing.T) {
	got := decodeAll("a\x1b[2Jb\x1b[10;20Hc")
	if len(got) != 1 || got[0].Text != "abc" {
		t.Fatalf("got %v", got)
	}
}

func TestDecoder_AbortedSequenceKeptAsText(t *testing.T) {
	got := TextOf(decodeAll("x\x1b[1\ny"))
	if got != "x\x1b[1\ny" {
		t.Fatalf("got %q", got)
	}
	long := "\x1b[" + strings.Repeat("1", MaxSequenceLength)
	got = TextOf(decodeAll(long + "mZ"))
	if got != long+"mZ" {
		t.Fatalf("overlong sequence lost content: %q", got)
	}
}
