package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Text is a descriptive field that tolerates any JSON scalar so a single
// malformed attribute never fails the decode of a whole page.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case nil:
		*t = ""
	case map[string]interface{}, []interface{}:
		*t = Text(strings.TrimSpace(string(data)))
	default:
		*t = Text(string(data))
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}
