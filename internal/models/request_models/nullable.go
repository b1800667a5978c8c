package request_models

import "encoding/json"

// NullableString distinguishes the three states a PATCH-style field can be
// in: absent (leave untouched), explicit null (clear), or a value.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}
