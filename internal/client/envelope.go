package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	appErrors "github.com/noah-isme/council-console/pkg/errors"
)

// Shape names the envelope a list response arrived in.
type Shape string

const (
	ShapeArray     Shape = "array"
	ShapeKeyed     Shape = "keyed"
	ShapeDataPaged Shape = "data+pagination"
)

type pagination struct {
	TotalCount int `json:"total_count"`
	Total      int `json:"total"`
}

// decodeList accepts a bare array, {<key>|items: [...], total}, or
// {data: [...]|{...}, pagination: {total_count}}. A missing or zero total falls
// back to the number of items.
func decodeList[T any](raw []byte, key string) ([]T, int, Shape, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, 0, "", fmt.Errorf("empty list response")
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, "", fmt.Errorf("decode list array: %w", err)
		}
		return items, len(items), ShapeArray, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, 0, "", fmt.Errorf("decode list object: %w", err)
	}

	for _, k := range []string{key, "items"} {
		itemsRaw, ok := obj[k]
		if !ok {
			continue
		}
		var items []T
		if err := json.Unmarshal(itemsRaw, &items); err != nil {
			return nil, 0, "", fmt.Errorf("decode %s: %w", k, err)
		}
		total := intField(obj, "total")
		if total <= 0 {
			total = len(items)
		}
		return items, total, ShapeKeyed, nil
	}

	if dataRaw, ok := obj["data"]; ok {
		items, total, _, err := decodeList[T](dataRaw, key)
		if err != nil {
			return nil, 0, "", err
		}
		if pRaw, ok := obj["pagination"]; ok {
			var p pagination
			if err := json.Unmarshal(pRaw, &p); err == nil {
				if p.TotalCount > 0 {
					total = p.TotalCount
				} else if p.Total > 0 {
					total = p.Total
				}
			}
		}
		return items, total, ShapeDataPaged, nil
	}

	return nil, 0, "", fmt.Errorf("list response has none of %q, \"items\" or \"data\"", key)
}

// DetectShape reports which envelope a list body uses.
func DetectShape(raw []byte, key string) (Shape, int, int, error) {
	items, total, shape, err := decodeList[json.RawMessage](raw, key)
	if err != nil {
		return "", 0, 0, err
	}
	return shape, len(items), total, nil
}

func intField(obj map[string]json.RawMessage, key string) int {
	raw, ok := obj[key]
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return int(n)
}

// decodeEntity accepts the entity itself or the entity wrapped in {data} or {<key>}.
func decodeEntity(raw []byte, key string, out interface{}) error {
	raw = bytes.TrimSpace(raw)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	if _, direct := obj["id"]; !direct {
		for _, k := range []string{key, "data"} {
			if inner, ok := obj[k]; ok {
				return decodeEntity(inner, key, out)
			}
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// decodeError maps an error response onto the typed taxonomy. Bodies may be
// {"error":{code,message}}, {"error":"text"}, {"message":"text"} or anything else.
func decodeError(status int, raw []byte) *appErrors.Error {
	message := ""
	var fields map[string]string

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		message = body.Message
		if len(body.Error) > 0 {
			var detail errorDetail
			var text string
			switch {
			case json.Unmarshal(body.Error, &detail) == nil:
				if detail.Message != "" {
					message = detail.Message
				}
				fields = detail.Fields
			case json.Unmarshal(body.Error, &text) == nil && text != "":
				message = text
			}
		}
	}
	if strings.TrimSpace(message) == "" {
		message = strings.ToLower(http.StatusText(status))
	}

	e := appErrors.FromStatus(status, message)
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}
