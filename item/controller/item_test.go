package controller

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceBound(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		field     string
		expected  *int64
		expectErr bool
	}{
		{
			name:     "given absent parameter should return nil bound",
			query:    url.Values{},
			field:    "min_price",
			expected: nil,
		},
		{
			name:     "given empty parameter should return nil bound",
			query:    url.Values{"min_price": {""}},
			field:    "min_price",
			expected: nil,
		},
		{
			name:     "given integer parameter should return bound",
			query:    url.Values{"min_price": {"1500"}},
			field:    "min_price",
			expected: int64Ptr(1500),
		},
		{
			name:     "given zero parameter should return zero bound",
			query:    url.Values{"max_price": {"0"}},
			field:    "max_price",
			expected: int64Ptr(0),
		},
		{
			name:      "given non integer parameter should return error",
			query:     url.Values{"max_price": {"abc"}},
			field:     "max_price",
			expectErr: true,
		},
		{
			name:      "given decimal parameter should return error",
			query:     url.Values{"max_price": {"10.5"}},
			field:     "max_price",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := priceBound(tt.query, tt.field)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
