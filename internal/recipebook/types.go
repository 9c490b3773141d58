package recipebook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type CategoryPayload struct {
	Name string `json:"name" yaml:"name"`
}

type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity" yaml:"quantity"`
}

type Instruction struct {
	Step string `json:"step" yaml:"step"`
}

type RecipePayload struct {
	Title        string        `json:"title" yaml:"title"`
	Description  string        `json:"description" yaml:"description"`
	Ingredients  []Ingredient  `json:"ingredients" yaml:"ingredients"`
	Instructions []Instruction `json:"instructions" yaml:"instructions"`
	CookingTime  int           `json:"cookingTime" yaml:"cookingTime"`
	Servings     int           `json:"servings" yaml:"servings"`
	Category     string        `json:"category" yaml:"category"`
}

// Record is a decoded resource. Numbers are kept as json.Number so they can
// be compared by their textual form.
type Record map[string]any

func (r Record) ID() string {
	return r.String("_id")
}

// String renders a field with Text. Missing fields render as "".
func (r Record) String(field string) string {
	return Text(r[field])
}

// Text renders a decoded JSON value the way it appears in JSON text:
// strings unquoted, numbers verbatim, objects and arrays re-encoded, null
// as "".
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return fmt.Sprint(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func (r Record) Object(field string) (Record, bool) {
	m, ok := r[field].(map[string]any)
	return Record(m), ok
}

func (r Record) Array(field string) ([]any, bool) {
	a, ok := r[field].([]any)
	return a, ok
}

// Records returns the elements of an array field that are JSON objects.
func (r Record) Records(field string) []Record {
	arr, _ := r.Array(field)
	out := make([]Record, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

func decoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := decoder(data).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("decode record: body is null")
	}
	return rec, nil
}

func DecodeRecords(data []byte) ([]Record, error) {
	var recs []Record
	if err := decoder(data).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if recs == nil {
		return nil, fmt.Errorf("decode records: body is not an array")
	}
	return recs, nil
}

// Fields converts a payload into the record shape the API echoes back, so
// expectations can be compared field by field.
func Fields(payload any) (Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return DecodeRecord(data)
}
