package condition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// DecodeRequest parses a request document.
//
// Only syntactically invalid JSON, or a top level that is not an object,
// is an error. Fields of the wrong type are treated as absent.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, err
	}
	return req, nil
}

// DecodeNode parses a single where tree. JSON null yields a nil Node.
func DecodeNode(data []byte) (Node, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid condition JSON")
	}
	return decodeNode(data), nil
}

type rawRequest struct {
	Where               json.RawMessage   `json:"where"`
	Sort                []json.RawMessage `json:"sort"`
	Offset              json.RawMessage   `json:"offset"`
	Limit               json.RawMessage   `json:"limit"`
	IncludeRelativeData json.RawMessage   `json:"includeRelativeData"`
}

// UnmarshalJSON implements json.Unmarshaler for Request.
func (r *Request) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("request must be a JSON object")
	}

	var raw rawRequest
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		// A wrongly typed "sort" fails the struct decode; retry without it.
		var loose map[string]json.RawMessage
		if err2 := json.Unmarshal(trimmed, &loose); err2 != nil {
			return err
		}
		raw = rawRequest{
			Where:               loose["where"],
			Offset:              loose["offset"],
			Limit:               loose["limit"],
			IncludeRelativeData: loose["includeRelativeData"],
		}
	}

	*r = Request{}
	if len(raw.Where) > 0 {
		r.Where = decodeNode(raw.Where)
	}
	for _, s := range raw.Sort {
		var sd SortDescriptor
		if err := json.Unmarshal(s, &sd); err != nil {
			sd = SortDescriptor{}
		}
		r.Sort = append(r.Sort, sd)
	}
	r.Offset = decodeInt(raw.Offset)
	r.Limit = decodeInt(raw.Limit)

	var include bool
	if len(raw.IncludeRelativeData) > 0 && json.Unmarshal(raw.IncludeRelativeData, &include) == nil {
		r.IncludeRelativeData = include
	}
	return nil
}

// decodeNode decodes an already validated JSON value into a Node.
// Non-object values become an empty Leaf, which the compiler drops.
func decodeNode(data []byte) Node {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '{' {
		return &Leaf{}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return &Leaf{}
	}

	rulesRaw, hasRules := obj["rules"]
	glueRaw, hasGlue := obj["glue"]
	if hasRules || hasGlue {
		g := &Group{Glue: GlueAnd}
		if hasGlue {
			var glue string
			if json.Unmarshal(glueRaw, &glue) == nil {
				g.Glue = ParseGlue(glue)
				g.GlueSet = true
			}
		}
		var children []json.RawMessage
		if hasRules && json.Unmarshal(rulesRaw, &children) == nil {
			for _, c := range children {
				if n := decodeNode(c); n != nil {
					g.Rules = append(g.Rules, n)
				}
			}
		}
		return g
	}

	leaf := &Leaf{}
	if k, ok := obj["key"]; ok {
		_ = json.Unmarshal(k, &leaf.Key)
	}
	if rule, ok := obj["rule"]; ok {
		_ = json.Unmarshal(rule, &leaf.Rule)
	}
	if v, ok := obj["value"]; ok {
		val, err := DecodeValue(v)
		if err == nil {
			leaf.Value = val
			leaf.HasValue = true
		}
	}
	return leaf
}

// DecodeValue decodes a JSON literal into a plain Go value:
// nil, bool, string, int64, float64, []any or map[string]any.
// Integral numbers become int64; everything else float64.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return normalizeValue(raw), nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeValue(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = normalizeValue(elem)
		}
		return out
	default:
		return val
	}
}

// decodeInt accepts integral JSON numbers that fit int64; anything else is
// absent. 1<<63 is compared as a float because MaxInt64 rounds up to it.
func decodeInt(data json.RawMessage) *int64 {
	if len(data) == 0 {
		return nil
	}
	v, err := DecodeValue(data)
	if err != nil {
		return nil
	}
	switch n := v.(type) {
	case int64:
		return &n
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt64 && n < 1<<63 {
			i := int64(n)
			return &i
		}
	}
	return nil
}
