package gateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

func (c *Client) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(c.checksumKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature recomputes the HMAC over the sorted data fields of a
// webhook body and compares it with the signature field. Malformed bodies
// are reported as unverified.
func (c *Client) VerifyWebhookSignature(body []byte) bool {
	if c.checksumKey == "" {
		return false
	}

	var payload struct {
		Data      map[string]interface{} `json:"data"`
		Signature string                 `json:"signature"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return false
	}
	if payload.Data == nil || payload.Signature == "" {
		return false
	}

	data, ok := sortedQuery(payload.Data)
	if !ok {
		return false
	}
	expected := c.sign(data)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(payload.Signature)))
}

// sortedQuery joins the fields as key=value pairs ordered by key.
func sortedQuery(data map[string]interface{}) (string, bool) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := formatValue(data[k])
		if !ok {
			return "", false
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, "&"), true
}

func formatValue(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		if val == "null" || val == "undefined" {
			return "", true
		}
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(raw), true
	}
}
