package model

// Widget is one dashboard widget placement. The core treats Config as opaque;
// only identity and grid geometry matter for layout persistence.
type Widget struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	X      int            `json:"x"`
	Y      int            `json:"y"`
	W      int            `json:"w"`
	H      int            `json:"h"`
	Config map[string]any `json:"config,omitempty"`
}

// VersionedLayout wraps a widget list with a schema version tag. Version 0
// (a bare array or an untagged object) predates the tag.
type VersionedLayout struct {
	Version int      `json:"version"`
	Widgets []Widget `json:"widgets"`
}
