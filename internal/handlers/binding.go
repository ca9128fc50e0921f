package handlers

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// BindNestedOrFlat binds the request body to obj, accepting either the Rails
// convention of a wrapped payload ({"client": {...}}) or a flat object
// ({...}). Older frontend builds still send the wrapped form.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	// Leave the body readable for anything downstream
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if raw, ok := wrapped[key]; ok {
			return json.Unmarshal(raw, obj)
		}
	}

	return json.Unmarshal(body, obj)
}
