package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// List decodes the list shapes the backend uses interchangeably: a bare JSON
// array, {"items": [...], "total": n}, or {"data": [...]}.
type List[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = List[T]{}
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = List[T]{Items: items, Total: len(items)}
		return nil
	}

	var envelope struct {
		Items []T  `json:"items"`
		Data  []T  `json:"data"`
		Total *int `json:"total"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decoding list: %w", err)
	}

	items := envelope.Items
	if items == nil {
		items = envelope.Data
	}

	total := len(items)
	if envelope.Total != nil {
		total = *envelope.Total
	}

	*l = List[T]{Items: items, Total: total}
	return nil
}
