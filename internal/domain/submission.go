package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// DecodeSubmission reads an answers object ({"<questionId>": <optionIndex>, ...}).
// It never fails: anything that is not an object yields an empty submission,
// and entries whose key is not a question id or whose value is not an integral
// number are dropped, so those questions score as unanswered.
func DecodeSubmission(raw json.RawMessage) Submission {
	out := make(Submission)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return out
	}
	for key, value := range fields {
		id, err := strconv.Atoi(key)
		if err != nil || strconv.Itoa(id) != key {
			continue
		}
		idx, ok := decodeIndex(value)
		if !ok {
			continue
		}
		out[id] = idx
	}
	return out
}

func decodeIndex(raw json.RawMessage) (int, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt32 || i > math.MaxInt32 {
			return 0, false
		}
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
