package grapheme

import "testing"

func TestSplitAndCount_MultiRuneGraphemes(t *testing.T) {
	family := "\U0001F468‍\U0001F469‍\U0001F467‍\U0001F466"
	text := "a" + "é" + family + "b"
	got := Split(text)
	if len(got) != 4 {
		t.Fatalf("split len=%d, want %d", len(got), 4)
	}
	if got[1] != "é" {
		t.Fatalf("split[1]=%q, want %q", got[1], "é")
	}
	if got[2] != family {
		t.Fatalf("split[2]=%q, want family emoji", got[2])
	}
	if c := Count(text); c != 4 {
		t.Fatalf("count=%d, want %d", c, 4)
	}
	if got, want := Join(got), text; got != want {
		t.Fatalf("join=%q, want %q", got, want)
	}
}

func TestIsSpace(t *testing.T) {
	if !IsSpace("\t") {
		t.Fatalf("tab should be space")
	}
	if IsSpace("a") {
		t.Fatalf("letter should not be space")
	}
	if IsSpace("") {
		t.Fatalf("empty cluster should not be space")
	}
}

func TestCellWidth(t *testing.T) {
	cases := []struct {
		name      string
		cluster   string
		visualCol int
		tabWidth  int
		want      int
	}{
		{name: "ascii", cluster: "a", want: 1},
		{name: "wide", cluster: "世", want: 2},
		{name: "tab-at-zero", cluster: "\t", visualCol: 0, tabWidth: 4, want: 4},
		{name: "tab-mid-stop", cluster: "\t", visualCol: 3, tabWidth: 4, want: 1},
		{name: "tab-default-width", cluster: "\t", visualCol: 1, tabWidth: 0, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CellWidth(tc.cluster, tc.visualCol, tc.tabWidth); got != tc.want {
				t.Fatalf("CellWidth(%q)=%d, want %d", tc.cluster, got, tc.want)
			}
		})
	}
}

func TestCommonAffixes(t *testing.T) {
	cases := []struct {
		a, b         string
		prefix, suff int
	}{
		{a: "abc", b: "abc", prefix: 3, suff: 0},
		{a: "abXc", b: "abYc", prefix: 2, suff: 1},
		{a: "aaa", b: "aa", prefix: 2, suff: 0},
		{a: "", b: "xy", prefix: 0, suff: 0},
		{a: "hello", b: "jello", prefix: 0, suff: 4},
	}
	for _, tc := range cases {
		p, s := CommonAffixes(Split(tc.a), Split(tc.b))
		if p != tc.prefix || s != tc.suff {
			t.Fatalf("CommonAffixes(%q,%q)=(%d,%d), want (%d,%d)", tc.a, tc.b, p, s, tc.prefix, tc.suff)
		}
	}
}
