package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "wrapped payload",
			key:      "client",
			body:     `{"client": {"name": "Acme SL", "email": "hola@acme.es"}}`,
			expected: bindTarget{Name: "Acme SL", Email: "hola@acme.es"},
		},
		{
			name:     "flat payload",
			key:      "client",
			body:     `{"name": "Acme SL", "email": "hola@acme.es"}`,
			expected: bindTarget{Name: "Acme SL", Email: "hola@acme.es"},
		},
		{
			name:     "wrapper key absent falls back to flat",
			key:      "client",
			body:     `{"other": 1, "name": "Norte SA", "email": "info@norte.es"}`,
			expected: bindTarget{Name: "Norte SA", Email: "info@norte.es"},
		},
		{
			name:     "other wrapper key",
			key:      "project",
			body:     `{"project": {"name": "Obra 2026"}}`,
			expected: bindTarget{Name: "Obra 2026"},
		},
		{
			name:        "type mismatch in flat payload",
			key:         "client",
			body:        `{"name": 42}`,
			expectError: true,
		},
		{
			name:        "type mismatch inside wrapper",
			key:         "client",
			body:        `{"client": {"name": 42}}`,
			expectError: true,
		},
		{
			name:        "wrapper value is not an object",
			key:         "client",
			body:        `{"client": "texto"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}
