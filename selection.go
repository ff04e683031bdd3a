package main

// LayerRef identifies one layer together with its kind. A nil LayerRef
// means nothing is selected.
type LayerRef interface {
	layerID() string
}

type TextRef string

type ImageRef string

func (r TextRef) layerID() string  { return string(r) }
func (r ImageRef) layerID() string { return string(r) }

func refKind(ref LayerRef) string {
	switch ref.(type) {
	case TextRef:
		return "text"
	case ImageRef:
		return "image"
	}
	return ""
}

func sameRef(a, b LayerRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
