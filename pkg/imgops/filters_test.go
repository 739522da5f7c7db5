package imgops

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"Grayscale":      FilterGrayscale,
		"sepia":          FilterSepia,
		" BLUR ":         FilterBlur,
		"sharpen":        FilterSharpen,
		"edge_detection": FilterEdgeDetect,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("emboss"); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("ParseKind(emboss) err = %v", err)
	}
	for _, k := range Kinds() {
		back, err := ParseKind(k.String())
		if err != nil || back != k {
			t.Errorf("kind %v does not round-trip through its name", k)
		}
	}
}

func TestConvolutionFiltersOnFlatImage(t *testing.T) {
	c := color.NRGBA{100, 150, 200, 180}
	src := makeSolidNRGBA(12, 9, c)
	for _, k := range []Kind{FilterBlur, FilterSharpen} {
		out, err := Filter(src, k)
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		if !Equal(out, src) {
			t.Fatalf("%v changed a flat image: %v", k, out.NRGBAAt(0, 0))
		}
	}
	edges, err := Filter(src, FilterEdgeDetect)
	if err != nil {
		t.Fatalf("edge: %v", err)
	}
	if got := edges.NRGBAAt(6, 4); got != (color.NRGBA{0, 0, 0, 180}) {
		t.Fatalf("flat region edge pixel = %v", got)
	}
}

func TestEdgeDetectFindsStep(t *testing.T) {
	src := makeSolidNRGBA(10, 10, color.NRGBA{0, 0, 0, 255})
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	out, _ := Filter(src, FilterEdgeDetect)
	if got := out.NRGBAAt(5, 5); got.R == 0 {
		t.Fatalf("expected an edge response at the step, got %v", got)
	}
	if got := out.NRGBAAt(1, 5); got.R != 0 {
		t.Fatalf("expected no response away from the step, got %v", got)
	}
}

func TestFilterDoesNotModifySource(t *testing.T) {
	src := makeGradient(20, 20)
	orig := Clone(src)
	for _, k := range Kinds() {
		out, err := Filter(src, k)
		if err != nil {
			t.Fatalf("%v: %v", k, err)
		}
		if out.Bounds() != src.Bounds() {
			t.Fatalf("%v changed bounds to %v", k, out.Bounds())
		}
	}
	if !Equal(src, orig) {
		t.Fatal("a filter modified its input")
	}
	if _, err := Filter(src, Kind(99)); !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("err = %v", err)
	}
}
