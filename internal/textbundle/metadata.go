package textbundle

import "maps"

func (b *Bundle) appKey(appID string) string {
	if appID == "" {
		return b.identifier
	}
	return appID
}

// AppMetadata returns a copy of the nested map stored under appID, or an
// empty map when the entry is absent or not an object. An empty appID means
// the bundle's own identifier.
func (b *Bundle) AppMetadata(appID string) map[string]any {
	if nested, ok := b.Metadata[b.appKey(appID)].(map[string]any); ok {
		return maps.Clone(nested)
	}
	return map[string]any{}
}

// SetAppMetadata sets key inside the nested map for appID, creating it when
// needed.
func (b *Bundle) SetAppMetadata(key string, value any, appID string) {
	nested := b.AppMetadata(appID)
	nested[key] = value
	b.setApp(appID, nested)
}

// RemoveAppMetadata deletes key from the nested map for appID. The nested
// map is written back even when it ends up empty.
func (b *Bundle) RemoveAppMetadata(key, appID string) {
	nested := b.AppMetadata(appID)
	delete(nested, key)
	b.setApp(appID, nested)
}

func (b *Bundle) setApp(appID string, nested map[string]any) {
	if b.Metadata == nil {
		b.Metadata = map[string]any{}
	}
	b.Metadata[b.appKey(appID)] = nested
}
