package jsonutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MergeField sets key on a raw JSON object and leaves every other byte of the
// payload as it was. raw must be a JSON object.
func MergeField(raw []byte, key string, value interface{}) ([]byte, error) {
	parsed := gjson.ParseBytes(raw)
	if !gjson.ValidBytes(raw) || !parsed.IsObject() {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	out, err := sjson.SetBytes(raw, key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to set %q: %w", key, err)
	}
	return out, nil
}

// FirstChoiceMessage pulls choices.0.message out of an OpenAI-style payload.
func FirstChoiceMessage(raw []byte) (role, content string, ok bool) {
	msg := gjson.GetBytes(raw, "choices.0.message")
	if !msg.Exists() {
		return "", "", false
	}
	return msg.Get("role").String(), msg.Get("content").String(), true
}

// GetInt reads an integer at a gjson path; ok is false when absent.
func GetInt(raw []byte, path string) (int, bool) {
	v := gjson.GetBytes(raw, path)
	if !v.Exists() {
		return 0, false
	}
	return int(v.Int()), true
}

// GetString reads a string at a gjson path.
func GetString(raw []byte, path string) string {
	return gjson.GetBytes(raw, path).String()
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteRawJSON writes an already encoded payload.
func WriteRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(raw)
}

// ToJSON serializes a Go value to a JSON string with indentation.
// Returns an empty string if serialization fails.
func ToJSON(v interface{}) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(bytes))
}
