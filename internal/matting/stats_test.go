package matting

import (
	"image/color"
	"math"
	"testing"
)

func TestBorderWidthFor(t *testing.T) {
	testCases := []struct {
		width, height int
		expected      int
	}{
		{100, 100, 5},  // 100/30 = 3, floored up to the minimum
		{30, 30, 5},    // tiny images still sample a 5px band
		{600, 300, 10}, // min(600,300)/30
		{1920, 1080, 36},
	}

	for _, tc := range testCases {
		if got := borderWidthFor(tc.width, tc.height); got != tc.expected {
			t.Errorf("borderWidthFor(%d, %d) = %d, expected %d", tc.width, tc.height, got, tc.expected)
		}
	}
}

func TestSampleBorder_PixelCount(t *testing.T) {
	// Sampled count must equal 2*w*bw + 2*(h-2*bw)*bw for images large
	// enough that the bands do not overlap.
	testCases := []struct {
		width, height int
	}{
		{100, 100},
		{200, 80},
		{640, 480},
	}

	for _, tc := range testCases {
		img := newUniformImage(tc.width, tc.height, color.RGBA{90, 90, 90, 255})
		field := newLABField(toNRGBA(img), 1)
		bw := borderWidthFor(tc.width, tc.height)

		ls, as, bs := sampleBorder(field, bw)
		expected := 2*tc.width*bw + 2*(tc.height-2*bw)*bw
		if len(ls) != expected {
			t.Errorf("%dx%d: sampled %d border pixels, expected %d", tc.width, tc.height, len(ls), expected)
		}
		if len(as) != len(ls) || len(bs) != len(ls) {
			t.Errorf("%dx%d: channel sample counts differ", tc.width, tc.height)
		}
	}
}

func TestSampleBorder_TinyImageNoDoubleSampling(t *testing.T) {
	// 8x8 with a 5px band: the bands cover the whole image, and every pixel
	// must be sampled exactly once.
	img := newUniformImage(8, 8, color.RGBA{50, 60, 70, 255})
	field := newLABField(toNRGBA(img), 1)

	ls, _, _ := sampleBorder(field, borderWidthFor(8, 8))
	if len(ls) != 64 {
		t.Errorf("Expected all 64 pixels sampled once, got %d", len(ls))
	}
}

func TestEstimateBackground_UniformBorder(t *testing.T) {
	img := newUniformImage(60, 60, color.RGBA{0, 255, 0, 255})
	field := newLABField(toNRGBA(img), 1)

	bg, sampled := estimateBackground(field)
	if sampled == 0 {
		t.Fatal("Expected border samples")
	}

	const tolerance = 1e-9
	if math.Abs(bg.meanL-0.7152) > tolerance {
		t.Errorf("Expected meanL=0.7152, got %f", bg.meanL)
	}
	if math.Abs(bg.meanA-(-1.0)) > tolerance {
		t.Errorf("Expected meanA=-1.0, got %f", bg.meanA)
	}
	if math.Abs(bg.meanB-0.5) > tolerance {
		t.Errorf("Expected meanB=0.5, got %f", bg.meanB)
	}

	// A single-color border has zero spread; only the epsilon floor remains.
	for name, std := range map[string]float64{"stdL": bg.stdL, "stdA": bg.stdA, "stdB": bg.stdB} {
		if math.Abs(std-stdFloor) > tolerance {
			t.Errorf("Expected %s to equal the %v floor, got %f", name, stdFloor, std)
		}
	}
}

func TestEstimateBackground_FloorsStandardDeviation(t *testing.T) {
	img := newSquareImage(90, 90, color.RGBA{10, 10, 10, 255}, color.RGBA{240, 240, 240, 255})
	field := newLABField(toNRGBA(img), 1)

	bg, _ := estimateBackground(field)
	if bg.stdL < stdFloor || bg.stdA < stdFloor || bg.stdB < stdFloor {
		t.Errorf("Standard deviations must never fall below the floor: %+v", bg)
	}
}

func TestComputeGlobalMean(t *testing.T) {
	// Half black, half white: the global mean sits exactly in between.
	img := newUniformImage(10, 10, color.RGBA{0, 0, 0, 255})
	for y := 0; y < 10; y++ {
		for x := 5; x < 10; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	field := newLABField(toNRGBA(img), 1)

	mean := computeGlobalMean(field)
	const tolerance = 1e-9
	if math.Abs(mean.l-0.5) > tolerance {
		t.Errorf("Expected global L mean 0.5, got %f", mean.l)
	}
	if math.Abs(mean.a) > tolerance {
		t.Errorf("Expected global A mean 0, got %f", mean.a)
	}
}
