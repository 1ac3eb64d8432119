package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type fieldKind int

const (
	textField fieldKind = iota
	decimalField
	integerField
)

// patchField maps a JSON payload key to the column it may update. Only
// keys listed in a field table ever reach an UPDATE statement, and the
// column name always comes from the table.
type patchField struct {
	Key    string
	Column string
	Kind   fieldKind
}

var productPatchFields = []patchField{
	{Key: "name", Column: "name", Kind: textField},
	{Key: "type", Column: "type", Kind: textField},
	{Key: "status", Column: "status", Kind: textField},
	{Key: "estimatedCost", Column: "estimated_cost", Kind: decimalField},
}

var materialPatchFields = []patchField{
	{Key: "name", Column: "name", Kind: textField},
	{Key: "quantity", Column: "quantity", Kind: integerField},
	{Key: "unit", Column: "unit", Kind: textField},
	{Key: "supplier", Column: "supplier", Kind: textField},
}

// collectUpdates picks the allow-listed keys out of a partial payload and
// returns column => coerced value. Unknown keys are ignored.
func collectUpdates(payload map[string]json.RawMessage, fields []patchField) (map[string]any, error) {
	updates := make(map[string]any, len(fields))
	for _, f := range fields {
		raw, ok := payload[f.Key]
		if !ok {
			continue
		}
		v, err := coerce(raw, f.Kind)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", f.Key, err)
		}
		updates[f.Column] = v
	}
	return updates, nil
}

// coerce converts a JSON value to the Go type of the target column.
// Numbers are accepted for text columns and numeric strings for numeric
// columns.
func coerce(raw json.RawMessage, kind fieldKind) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	switch kind {
	case textField:
		switch x := v.(type) {
		case string:
			return x, nil
		case json.Number:
			return x.String(), nil
		}
	case decimalField:
		switch x := v.(type) {
		case json.Number:
			return parseDecimal(x.String())
		case string:
			return parseDecimal(strings.TrimSpace(x))
		}
	case integerField:
		var s string
		switch x := v.(type) {
		case json.Number:
			s = x.String()
		case string:
			s = strings.TrimSpace(x)
		default:
			return nil, fmt.Errorf("unexpected %T", v)
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != float64(int(f)) {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		return int(f), nil
	}
	return nil, fmt.Errorf("unexpected %T", v)
}

// parseDecimal only accepts finite numbers; ParseFloat would also take
// "NaN" and "Inf", which a numeric column stores but JSON cannot render.
func parseDecimal(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

// Decimal is a float that also accepts numeric strings when decoded.
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	v, err := coerce(b, decimalField)
	if err != nil {
		return err
	}
	*d = Decimal(v.(float64))
	return nil
}

// Integer is an int that also accepts numeric strings when decoded.
type Integer int

func (n *Integer) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	v, err := coerce(b, integerField)
	if err != nil {
		return err
	}
	*n = Integer(v.(int))
	return nil
}

// decodeIDs reads an optional list of material ids; null means an empty list.
func decodeIDs(raw json.RawMessage) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("invalid value for materials: %w", err)
	}
	return ids, nil
}
