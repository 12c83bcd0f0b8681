package vitals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BloodPressure is a "<systolic>/<diastolic>" reading.
type BloodPressure struct {
	Raw       json.RawMessage
	Valid     bool
	Systolic  float64
	Diastolic float64
}

func (bp *BloodPressure) UnmarshalJSON(data []byte) error {
	raw := append(json.RawMessage(nil), bytes.TrimSpace(data)...)

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// null, numbers, objects: keep the raw value, mark invalid
		*bp = BloodPressure{Raw: raw}
		return nil
	}

	*bp = ParseBloodPressure(s)
	bp.Raw = raw
	return nil
}

func (bp BloodPressure) MarshalJSON() ([]byte, error) {
	if len(bp.Raw) == 0 {
		return jsonNull, nil
	}
	return bp.Raw, nil
}

func (bp BloodPressure) String() string {
	if !bp.Valid {
		return "invalid"
	}
	return fmt.Sprintf("%g/%g", bp.Systolic, bp.Diastolic)
}

// ParseBloodPressure accepts exactly one '/' with a number trimmed on each side.
func ParseBloodPressure(s string) BloodPressure {
	if strings.TrimSpace(s) == "" {
		return BloodPressure{}
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return BloodPressure{}
	}

	systolic, ok := parseFloat(parts[0])
	if !ok {
		return BloodPressure{}
	}
	diastolic, ok := parseFloat(parts[1])
	if !ok {
		return BloodPressure{}
	}

	return BloodPressure{Valid: true, Systolic: systolic, Diastolic: diastolic}
}
