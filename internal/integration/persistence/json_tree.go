package persistence

import "encoding/json"

// EncodeTree converts a typed value into the generic JSON value tree the
// partitioned store operates on.
func EncodeTree(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// DecodeTree converts a JSON value tree back into a typed value.
func DecodeTree(tree any, out any) error {
	raw, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
