package imgops

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"blue":           {0, 0, 255, 255},
		"cornflowerblue": {100, 149, 237, 255},
		"tan":            {0xd2, 0xb4, 0x8c, 255},
		" Red ":          {255, 0, 0, 255},
		"#0f0":           {0, 255, 0, 255},
		"#0f08":          {0, 255, 0, 0x88},
		"#336699":        {0x33, 0x66, 0x99, 255},
		"#33669980":      {0x33, 0x66, 0x99, 0x80},
		"10, 20,30":      {10, 20, 30, 255},
	}
	got := map[string]color.NRGBA{}
	for in := range cases {
		c, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", in, err)
		}
		got[in] = c
	}
	if diff := cmp.Diff(cases, got); diff != "" {
		t.Fatalf("ParseColor mismatch (-want +got):\n%s", diff)
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "1,2", "1,2,300", "notacolor"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) succeeded", in)
		}
	}
}

func TestFormatColor(t *testing.T) {
	if s := FormatColor(color.NRGBA{0, 0, 255, 255}); s != "#0000ff" {
		t.Fatalf("FormatColor = %q", s)
	}
	if s := FormatColor(color.NRGBA{1, 2, 3, 4}); s != "#01020304" {
		t.Fatalf("FormatColor = %q", s)
	}
}
