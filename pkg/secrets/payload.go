package secrets

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodePayload reads a JSON object as key/value pairs. Anything else is stored under "value".
func decodePayload(raw []byte) map[string]string {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return flatten(obj)
	}
	return map[string]string{"value": strings.TrimSpace(string(raw))}
}

func flatten(obj map[string]interface{}) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
