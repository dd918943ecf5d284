package db

import "encoding/json"

func marshalJSONB(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return []byte("[]")
	}
	return raw
}

func unmarshalList[T any](raw []byte) []T {
	out := []T{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}
