// Package migrate rehydrates persisted calculator and layout blobs across
// schema versions. It never fails on malformed input: anything unrecognized
// degrades to an empty current-version structure so a corrupted store can
// never block loading.
package migrate

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/prateekjain24/pmkit/internal/model"
)

// LayoutVersion is the current widget-layout schema version.
const LayoutVersion = 1

// layoutMigrations maps the version being migrated FROM to its transform.
// Adding a future step means adding one entry here; the walk in LoadLayout
// needs no changes. A missing entry is a deliberate no-op pass-through,
// logged so schema drift stays visible.
var layoutMigrations = map[int]func(model.VersionedLayout) model.VersionedLayout{
	0: func(l model.VersionedLayout) model.VersionedLayout {
		l.Version = 1
		return l
	},
}

// LoadLayout decodes an arbitrary persisted blob into the current layout
// schema. Accepted legacy shapes: a bare widget array (version 0) and an
// untagged {"widgets": [...]} object (version 0). Anything else degrades to
// an empty current-version layout.
func LoadLayout(raw []byte) model.VersionedLayout {
	layout, version := decodeLayout(raw)
	for v := version; v < LayoutVersion; v++ {
		step, ok := layoutMigrations[v]
		if !ok {
			zap.L().Warn("migrate: no layout migration registered, passing through",
				zap.Int("from_version", v),
			)
			layout.Version = v + 1
			continue
		}
		layout = step(layout)
	}
	return layout
}

// decodeLayout sniffs the persisted shape and returns it plus its detected
// version.
func decodeLayout(raw []byte) (model.VersionedLayout, int) {
	empty := model.VersionedLayout{Version: LayoutVersion, Widgets: []model.Widget{}}
	if len(raw) == 0 {
		return empty, LayoutVersion
	}

	// Bare array: the oldest persisted form.
	var widgets []model.Widget
	if err := json.Unmarshal(raw, &widgets); err == nil {
		return model.VersionedLayout{Version: 0, Widgets: widgets}, 0
	}

	// Tagged or untagged object.
	var tagged struct {
		Version *int           `json:"version"`
		Widgets []model.Widget `json:"widgets"`
	}
	if err := json.Unmarshal(raw, &tagged); err != nil || tagged.Widgets == nil {
		return empty, LayoutVersion
	}
	if tagged.Version == nil {
		return model.VersionedLayout{Version: 0, Widgets: tagged.Widgets}, 0
	}
	v := *tagged.Version
	if v < 0 || v > LayoutVersion {
		return empty, LayoutVersion
	}
	return model.VersionedLayout{Version: v, Widgets: tagged.Widgets}, v
}

// PrepareForStorage wraps a widget list in the current versioned envelope.
func PrepareForStorage(widgets []model.Widget) model.VersionedLayout {
	if widgets == nil {
		widgets = []model.Widget{}
	}
	return model.VersionedLayout{Version: LayoutVersion, Widgets: widgets}
}

// ExtractWidgets unwraps a versioned layout back to its widget list.
func ExtractWidgets(layout model.VersionedLayout) []model.Widget {
	return layout.Widgets
}
