package imgops

import (
	"errors"
	"image/color"
	"testing"
)

func TestAdjustColorIdentity(t *testing.T) {
	src := makeGradient(64, 48)
	src.Pix[3] = 90
	out, err := AdjustColor(src, 1, 1, 1)
	if err != nil {
		t.Fatalf("AdjustColor error: %v", err)
	}
	if !Equal(out, src) {
		t.Fatal("AdjustColor(1,1,1) changed the image")
	}
}

func TestBrightnessZeroIsBlackKeepingAlpha(t *testing.T) {
	src := makeSolidNRGBA(4, 4, color.NRGBA{120, 200, 80, 77})
	out, err := AdjustColor(src, 0, 1, 1)
	if err != nil {
		t.Fatalf("AdjustColor error: %v", err)
	}
	if got := out.NRGBAAt(2, 2); got != (color.NRGBA{0, 0, 0, 77}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestBrightnessExtrapolationClips(t *testing.T) {
	src := makeSolidNRGBA(2, 2, color.NRGBA{100, 200, 10, 255})
	out, _ := AdjustColor(src, 2, 1, 1)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{200, 255, 20, 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestContrastZeroIsMeanGray(t *testing.T) {
	src := makeSolidNRGBA(2, 1, color.NRGBA{0, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})
	out, err := AdjustColor(src, 1, 0, 1)
	if err != nil {
		t.Fatalf("AdjustColor error: %v", err)
	}
	// mean luminance of black and white is 127.5, rounded to 128
	for x := 0; x < 2; x++ {
		if got := out.NRGBAAt(x, 0); got != (color.NRGBA{128, 128, 128, 255}) {
			t.Fatalf("pixel %d = %v", x, got)
		}
	}
}

func TestSaturationZeroMatchesGrayscale(t *testing.T) {
	src := makeGradient(30, 30)
	desat, err := AdjustColor(src, 1, 1, 0)
	if err != nil {
		t.Fatalf("AdjustColor error: %v", err)
	}
	if !Equal(desat, Grayscale(src)) {
		t.Fatal("zero saturation differs from grayscale")
	}
}

func TestAdjustColorRejectsBadFactors(t *testing.T) {
	src := makeGradient(4, 4)
	if _, err := AdjustColor(src, -0.5, 1, 1); !errors.Is(err, ErrInvalidFactor) {
		t.Fatalf("err = %v, want ErrInvalidFactor", err)
	}
	if _, err := AdjustColor(nil, 1, 1, 1); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
}

func TestGrayscaleLuma(t *testing.T) {
	src := makeSolidNRGBA(1, 1, color.NRGBA{255, 0, 0, 200})
	out := Grayscale(src)
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{76, 76, 76, 200}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestSepiaEndpoints(t *testing.T) {
	white := Sepia(makeSolidNRGBA(2, 2, color.NRGBA{255, 255, 255, 255}))
	if got := white.NRGBAAt(1, 1); got != (color.NRGBA{240, 200, 145, 255}) {
		t.Fatalf("white -> %v", got)
	}
	black := Sepia(makeSolidNRGBA(2, 2, color.NRGBA{0, 0, 0, 10}))
	if got := black.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 0, 10}) {
		t.Fatalf("black -> %v", got)
	}
}

func TestSepiaLargeImageParallel(t *testing.T) {
	src := makeGradient(128, 256)
	out := Sepia(src)
	for _, p := range [][2]int{{0, 0}, {127, 255}, {64, 130}} {
		s := src.NRGBAAt(p[0], p[1])
		want := sepiaTable()[luminance(s.R, s.G, s.B)]
		got := out.NRGBAAt(p[0], p[1])
		if got.R != want[0] || got.G != want[1] || got.B != want[2] || got.A != s.A {
			t.Fatalf("pixel %v = %v, want %v", p, got, want)
		}
	}
}
