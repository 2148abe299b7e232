package collection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "Minimal", doc: `{"item": []}`},
		{name: "String request", doc: `{"item": [{"name": "a", "request": "http://x"}]}`},
		{name: "Folder", doc: `{"item": [{"name": "f", "item": [{"request": {"url": {"raw": "http://x"}}}]}]}`},
		{name: "Not an object", doc: `[]`, wantErr: true},
		{name: "Item is both folder and request", doc: `{"item": [{"item": [], "request": "http://x"}]}`, wantErr: true},
		{name: "Empty url", doc: `{"item": [{"request": {"url": ""}}]}`, wantErr: true},
		{name: "Header without key", doc: `{"item": [{"request": {"url": "http://x", "header": [{"value": "v"}]}}]}`, wantErr: true},
		{name: "Variable without key", doc: `{"variable": [{"value": "v"}], "item": []}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.NotEmpty(t, verrs)
		})
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	doc := `{"auth": {}, "item": [{"request": {"method": "GET"}}]}`

	err := Validate([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/auth")
	assert.Contains(t, err.Error(), "/item/0")
}
