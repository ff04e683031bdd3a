package main

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerateRequest
		want    []string
		notWant []string
	}{
		{
			name:    "fresh",
			req:     GenerateRequest{Prompt: "a robot", Style: StyleGaming},
			want:    []string{"Create a YouTube thumbnail", "Aspect ratio 16:9", "Subject: a robot", stylePrompts[StyleGaming]},
			notWant: []string{"MUST"},
		},
		{
			name: "reference without prompt",
			req:  GenerateRequest{Style: StyleComic, Reference: &Payload{}},
			want: []string{"Transform this image", "Maintain the subject but change the style."},
		},
		{
			name:    "text flag without text",
			req:     GenerateRequest{Prompt: "x", IncludeTextInAI: true},
			notWant: []string{"MUST"},
		},
		{
			name: "text",
			req:  GenerateRequest{Prompt: "x", IncludeTextInAI: true, AIText: "HELLO"},
			want: []string{`MUST clearly feature the text: "HELLO"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPrompt(tt.req)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("buildPrompt() = %q, missing %q", got, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("buildPrompt() = %q, should not contain %q", got, w)
				}
			}
		})
	}
}

func TestLocalStudio_Generate(t *testing.T) {
	s := newLocalStudio(NewFontRegistry())
	for _, style := range thumbnailStyles {
		t.Run(string(style), func(t *testing.T) {
			p, err := s.Generate(context.Background(), GenerateRequest{
				Prompt:          "a cat",
				Style:           style,
				IncludeTextInAI: true,
				AIText:          "HI",
			})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			w, h, err := p.NaturalSize()
			if err != nil || w != 1280 || h != 720 {
				t.Errorf("NaturalSize() = %d, %d, %v, want 1280x720", w, h, err)
			}
		})
	}
}

func TestLocalStudio_GenerateWithReference(t *testing.T) {
	s := newLocalStudio(NewFontRegistry())
	ref := solidPNG(t, 64, 64, color.NRGBA{0, 255, 0, 255})
	p, err := s.Generate(context.Background(), GenerateRequest{Style: StyleMinimalist, Reference: ref})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, _, err := p.NaturalSize(); err != nil {
		t.Errorf("NaturalSize() error = %v", err)
	}
}

func TestLocalStudio_GenerateCancelled(t *testing.T) {
	s := newLocalStudio(NewFontRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Generate(ctx, GenerateRequest{Style: StyleRetro}); err == nil {
		t.Error("Generate() with cancelled context error = nil")
	}
}

func TestLocalStudio_Enhance(t *testing.T) {
	s := newLocalStudio(nil)
	got, err := s.Enhance(context.Background(), "  my idea ")
	if err != nil || !strings.HasPrefix(got, "my idea, ") {
		t.Errorf("Enhance() = %q, %v", got, err)
	}
	if got, _ := s.Enhance(context.Background(), ""); got != "" {
		t.Errorf("Enhance(empty) = %q, want empty", got)
	}
}

func TestLocalStudio_RemoveBackground(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			c := color.NRGBA{250, 250, 250, 255}
			if x >= 6 && x < 14 && y >= 6 && y < 14 {
				c = color.NRGBA{200, 0, 0, 255}
			}
			src.SetNRGBA(x, y, c)
		}
	}
	in, err := EncodePNG(src)
	if err != nil {
		t.Fatal(err)
	}

	s := newLocalStudio(nil)
	out, err := s.RemoveBackground(context.Background(), in)
	if err != nil {
		t.Fatalf("RemoveBackground() error = %v", err)
	}
	img, err := out.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if _, _, _, a := img.At(10, 10).RGBA(); a == 0 {
		t.Error("subject pixel was cleared")
	}
}
