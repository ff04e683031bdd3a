package main

import "strings"

type Mode int

const (
	ModeNormal Mode = iota
	ModeTextInput
	ModePrompt
	ModeAIText
	ModeFieldInput
	ModeFileInput
	ModeHistory
	ModeConfirm
	ModeAlert
)

type FileOperation int

const (
	FileOpExportPNG FileOperation = iota
	FileOpExportBackground
	FileOpSaveVisualTXT
	FileOpOpenBackground
	FileOpOpenLayer
)

type ConfirmAction int

const (
	ConfirmDeleteLayer ConfirmAction = iota
	ConfirmQuit
	ConfirmRestoreHistory
	ConfirmOverwriteFile
)

type ThumbnailStyle string

const (
	StyleRealistic  ThumbnailStyle = "Realistic"
	StyleAnimated   ThumbnailStyle = "Animated/3D"
	StyleMinimalist ThumbnailStyle = "Minimalist"
	StyleGaming     ThumbnailStyle = "Gaming/High Contrast"
	StyleClickbait  ThumbnailStyle = "Clickbait/Shocked"
	StyleRetro      ThumbnailStyle = "Retro/Vaporwave"
	StyleComic      ThumbnailStyle = "Comic Book"
)

var thumbnailStyles = []ThumbnailStyle{
	StyleRealistic, StyleAnimated, StyleMinimalist, StyleGaming,
	StyleClickbait, StyleRetro, StyleComic,
}

var stylePrompts = map[ThumbnailStyle]string{
	StyleRealistic:  "photorealistic, 4k, highly detailed, professional photography, cinematic lighting",
	StyleAnimated:   "3D render, Pixar style, vivid colors, smooth gradients, plastic texture, blender guru",
	StyleMinimalist: "clean background, negative space, simple composition, flat design, soft shadows",
	StyleGaming:     "neon accents, dark background, high saturation, glowing effects, esports style, dramatic action",
	StyleClickbait:  "exaggerated facial expressions, vibrant red arrows, yellow text background, high contrast, wide angle lens",
	StyleRetro:      "synthwave, neon purple and blue, grid background, VHS glitch effect, 80s aesthetic",
	StyleComic:      "bold outlines, halftone pattern, comic book style, pop art, vibrant primary colors",
}

func parseStyle(s string) (ThumbnailStyle, bool) {
	for _, style := range thumbnailStyles {
		if strings.EqualFold(string(style), s) || strings.EqualFold(styleKey(style), s) {
			return style, true
		}
	}
	return "", false
}

// styleKey is the short name used in the config file ("clickbait", "retro").
func styleKey(s ThumbnailStyle) string {
	key, _, _ := strings.Cut(string(s), "/")
	key, _, _ = strings.Cut(key, " ")
	return strings.ToLower(key)
}

func nextStyle(s ThumbnailStyle) ThumbnailStyle {
	for i, style := range thumbnailStyles {
		if style == s {
			return thumbnailStyles[(i+1)%len(thumbnailStyles)]
		}
	}
	return thumbnailStyles[0]
}

func prevStyle(s ThumbnailStyle) ThumbnailStyle {
	for i, style := range thumbnailStyles {
		if style == s {
			return thumbnailStyles[(i+len(thumbnailStyles)-1)%len(thumbnailStyles)]
		}
	}
	return thumbnailStyles[0]
}

const (
	defaultPrompt      = "A surprised man holding a glowing mysterious object"
	defaultOverlayText = "NEW VIDEO"

	defaultTextX        = 50
	defaultTextY        = 50
	defaultTextRotation = -5
	defaultFontSize     = 64
	defaultTextColor    = "#ffffff"
	defaultTextBg       = "#cc0000"
	defaultStrokeColor  = "#000000"
	defaultShadowColor  = "rgba(0,0,0,0.5)"
	defaultShadowBlur   = 10
	defaultShadowOffset = 5

	defaultImageX     = 100
	defaultImageY     = 100
	defaultImageWidth = 200

	minFontSize     = 12
	maxFontSize     = 200
	maxStrokeWidth  = 20
	maxShadowBlur   = 50
	minImageSize    = 50
	maxImageSize    = 1280
	rotationLimit   = 180
	aspectRatioW    = 16
	aspectRatioH    = 9
	charWidth       = 8.0
	charHeight      = 16.0
	panelWidth      = 38
	transparentName = "transparent"
)
