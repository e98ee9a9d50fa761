package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-05-01", want: "2024-05-01"},
		{in: "2024-05-01T23:30:00Z", want: "2024-05-01"},
		{in: "2024-05-01T23:30:00-02:00", want: "2024-05-02"},
		{in: "1714521600000", want: "2024-05-01"},
		{in: "yesterday", wantErr: true},
		{in: "2024", wantErr: true},
		{in: "20240501", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
