package services

import (
	"bytes"
	"encoding/json"
)

func decodeJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func decodeRows(raw []byte) ([]Row, error) {
	var rows []Row
	if err := decodeJSON(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
