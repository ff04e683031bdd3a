package main

import (
	"errors"
	"testing"
)

type fakeMeasurer struct {
	width float64
	err   error
	calls int
}

func (f *fakeMeasurer) MeasureWidth(text, family, weight string, size float64) (float64, error) {
	f.calls++
	return f.width, f.err
}

func TestAutoFit(t *testing.T) {
	base := newTestText("1")
	base.X = 33
	base.FontSize = 64

	tests := []struct {
		name     string
		autoFit  bool
		viewport float64
		measured float64
		err      error
		want     FitResult
	}{
		{
			name:     "fits ninety percent",
			autoFit:  true,
			viewport: 1000,
			measured: 500,
			want:     FitResult{FontSize: 180, X: 50, Fitted: true},
		},
		{
			name:     "wide text shrinks",
			autoFit:  true,
			viewport: 1000,
			measured: 1800,
			want:     FitResult{FontSize: 50, X: 50, Fitted: true},
		},
		{
			name:     "disabled",
			autoFit:  false,
			viewport: 1000,
			measured: 500,
			want:     FitResult{FontSize: 64, X: 33},
		},
		{
			name:     "viewport not measured",
			autoFit:  true,
			viewport: 0,
			measured: 500,
			want:     FitResult{FontSize: 64, X: 33},
		},
		{
			name:     "measurement failed",
			autoFit:  true,
			viewport: 1000,
			err:      errors.New("no face"),
			want:     FitResult{FontSize: 64, X: 33},
		},
		{
			name:     "zero width text",
			autoFit:  true,
			viewport: 1000,
			measured: 0,
			want:     FitResult{FontSize: 64, X: 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer := base
			layer.AutoFit = tt.autoFit
			m := &fakeMeasurer{width: tt.measured, err: tt.err}

			got := AutoFit(layer, tt.viewport, m)
			if !approx(got.FontSize, tt.want.FontSize) || !approx(got.X, tt.want.X) || got.Fitted != tt.want.Fitted {
				t.Errorf("AutoFit() = %+v, want %+v", got, tt.want)
			}
			if layer.FontSize != 64 || layer.X != 33 {
				t.Errorf("AutoFit() modified the layer: size %v x %v", layer.FontSize, layer.X)
			}
		})
	}
}

func TestAutoFit_MeasuresAtReferenceSize(t *testing.T) {
	var gotSize float64
	var gotText string
	m := measureFunc(func(text, _, _ string, size float64) (float64, error) {
		gotText, gotSize = text, size
		return 100, nil
	})
	layer := newTestText("1")
	layer.AutoFit = true
	layer.Content = "TWO\nLINES"

	AutoFit(layer, 800, m)
	if gotSize != autoFitReferenceSize {
		t.Errorf("measured at size %v, want %v", gotSize, autoFitReferenceSize)
	}
	if gotText != "TWO LINES" {
		t.Errorf("measured %q, want %q", gotText, "TWO LINES")
	}
}

type measureFunc func(text, family, weight string, size float64) (float64, error)

func (f measureFunc) MeasureWidth(text, family, weight string, size float64) (float64, error) {
	return f(text, family, weight, size)
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
