package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in      string
		want    Label
		wantErr bool
	}{
		{"Happy", LabelHappy, false},
		{"happy", LabelHappy, false},
		{"HAPPY", LabelHappy, false},
		{"  calm  ", LabelCalm, false},
		{"Worried", LabelWorried, false},
		{"", "", true},
		{"Jubilant", "", true},
		{"Happyy", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLabel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
		} else {
			require.NoError(t, err, "input %q", tt.in)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 1.0, ClampConfidence(1.5))
	assert.Equal(t, 0.0, ClampConfidence(-0.2))
	assert.Equal(t, 0.75, ClampConfidence(0.75))
	assert.Equal(t, 0.0, ClampConfidence(0.0))
	assert.Equal(t, 1.0, ClampConfidence(1.0))
	assert.Equal(t, 0.0, ClampConfidence(math.NaN()))
	assert.Equal(t, 0.0, ClampConfidence(math.Inf(1)))
}
