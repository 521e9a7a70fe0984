// Package privacy implements the sensitive-field partitioner. Arbitrary
// JSON-like values (map[string]any, []any and scalars, as produced by
// encoding/json) are split into a public shape and a sensitive shape based
// on a fixed field-name deny-list, and recombined losslessly on read.
package privacy

import "maps"

// Marker fields injected into split shapes. MarkerHasSecureData tags a public
// object so the read path knows to look for a secure counterpart;
// MarkerIndex carries the original position of a sensitive array element so
// the two shapes can be re-zipped.
const (
	MarkerHasSecureData = "_hasSecureData"
	MarkerIndex         = "_index"
	markerItems         = "_items"
)

// sensitiveFields is the deny-list: any key in this set, at any depth, is
// routed to the protected tier.
var sensitiveFields = map[string]bool{
	"name":       true,
	"cpf":        true,
	"phone":      true,
	"email":      true,
	"clientName": true,
}

// IsSensitiveField reports whether a field name is on the deny-list.
func IsSensitiveField(name string) bool {
	return sensitiveFields[name]
}

// ContainsSensitiveData reports whether the value holds a deny-listed key at
// any depth.
func ContainsSensitiveData(value any) bool {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			if sensitiveFields[key] || ContainsSensitiveData(child) {
				return true
			}
		}
	case []any:
		for _, child := range v {
			if ContainsSensitiveData(child) {
				return true
			}
		}
	}
	return false
}

// Split partitions a value into its public and sensitive shapes. When the
// value contains no sensitive leaf, the public shape is the value unchanged
// (no marker) and the sensitive shape is nil.
func Split(value any) (public any, sensitive any) {
	switch v := value.(type) {
	case map[string]any:
		pub, sens, has := splitObject(v)
		if !has {
			return value, nil
		}
		return pub, sens
	case []any:
		pub, sens, has := splitArray(v)
		if !has {
			return value, nil
		}
		return pub, sens
	default:
		return value, nil
	}
}

// splitObject partitions a single object. The returned public map carries the
// MarkerHasSecureData tag when anything was routed to the sensitive side.
func splitObject(obj map[string]any) (map[string]any, map[string]any, bool) {
	public := make(map[string]any, len(obj)+1)
	sensitive := make(map[string]any)

	for key, child := range obj {
		if sensitiveFields[key] {
			sensitive[key] = child
			continue
		}

		switch c := child.(type) {
		case map[string]any:
			pub, sens, has := splitObject(c)
			if has {
				public[key] = pub
				sensitive[key] = sens
			} else {
				public[key] = child
			}
		case []any:
			pub, sens, has := splitArray(c)
			if has {
				public[key] = pub
				sensitive[key] = sens
			} else {
				public[key] = child
			}
		default:
			public[key] = child
		}
	}

	if len(sensitive) == 0 {
		return obj, nil, false
	}

	public[MarkerHasSecureData] = true
	return public, sensitive, true
}

// splitArray partitions an array. The public side preserves length and
// positions; each sensitive element carries its original index.
func splitArray(arr []any) ([]any, []any, bool) {
	public := make([]any, len(arr))
	sensitive := make([]any, 0)

	for i, child := range arr {
		public[i] = child

		switch c := child.(type) {
		case map[string]any:
			pub, sens, has := splitObject(c)
			if has {
				public[i] = pub
				sens[MarkerIndex] = i
				sensitive = append(sensitive, sens)
			}
		case []any:
			pub, sens, has := splitArray(c)
			if has {
				public[i] = pub
				sensitive = append(sensitive, map[string]any{
					MarkerIndex: i,
					markerItems: sens,
				})
			}
		}
	}

	if len(sensitive) == 0 {
		return arr, nil, false
	}
	return public, sensitive, true
}

// Combine merges a sensitive shape back into its public counterpart and
// strips the markers. A nil or mismatched sensitive shape is tolerated: the
// protected-tier write may have failed independently of the public one, in
// which case the public-only shape is returned. Orphaned sensitive entries
// with no public position are ignored.
func Combine(public any, sensitive any) any {
	if sensitive == nil {
		return StripMarkers(public)
	}

	switch pub := public.(type) {
	case map[string]any:
		sens, ok := sensitive.(map[string]any)
		if !ok {
			return StripMarkers(public)
		}
		return combineObject(pub, sens)
	case []any:
		sens, ok := sensitive.([]any)
		if !ok {
			return StripMarkers(public)
		}
		return combineArray(pub, sens)
	default:
		return public
	}
}

func combineObject(public map[string]any, sensitive map[string]any) map[string]any {
	result := make(map[string]any, len(public)+len(sensitive))
	maps.Copy(result, public)
	delete(result, MarkerHasSecureData)

	for key, sensChild := range sensitive {
		if key == MarkerIndex {
			continue
		}

		pubChild, exists := result[key]
		if !exists {
			result[key] = StripMarkers(sensChild)
			continue
		}

		switch p := pubChild.(type) {
		case map[string]any:
			if s, ok := sensChild.(map[string]any); ok {
				result[key] = combineObject(p, s)
				continue
			}
		case []any:
			if s, ok := sensChild.([]any); ok {
				result[key] = combineArray(p, s)
				continue
			}
		}
		result[key] = StripMarkers(sensChild)
	}

	// Children split without any sibling sensitive key still carry markers.
	for key, child := range result {
		result[key] = stripShallowCombined(child)
	}

	return result
}

func combineArray(public []any, sensitive []any) []any {
	result := make([]any, len(public))
	for i, child := range public {
		result[i] = child
	}

	for _, sensElem := range sensitive {
		sens, ok := sensElem.(map[string]any)
		if !ok {
			continue
		}
		index, ok := asIndex(sens[MarkerIndex])
		if !ok || index < 0 || index >= len(result) {
			// Orphaned sensitive element, nothing to zip it with.
			continue
		}

		if items, ok := sens[markerItems].([]any); ok {
			if pubChild, ok := result[index].([]any); ok {
				result[index] = combineArray(pubChild, items)
			}
			continue
		}

		if pubChild, ok := result[index].(map[string]any); ok {
			result[index] = combineObject(pubChild, sens)
		}
	}

	for i, child := range result {
		result[i] = stripShallowCombined(child)
	}

	return result
}

// stripShallowCombined strips markers from children that had no sensitive
// counterpart merged into them, leaving already-combined subtrees alone.
func stripShallowCombined(child any) any {
	switch c := child.(type) {
	case map[string]any:
		if _, tagged := c[MarkerHasSecureData]; tagged {
			return StripMarkers(c)
		}
		return c
	default:
		return child
	}
}

// StripMarkers returns a copy of the value with all internal tagging fields
// removed, at every depth.
func StripMarkers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, child := range v {
			if key == MarkerHasSecureData || key == MarkerIndex {
				continue
			}
			result[key] = StripMarkers(child)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, child := range v {
			result[i] = StripMarkers(child)
		}
		return result
	default:
		return value
	}
}

// asIndex normalizes an index that may arrive as an int (freshly split) or a
// float64 (after a JSON round-trip through the store).
func asIndex(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
