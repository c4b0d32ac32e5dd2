package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCnNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"元", 1, true},
		{"一", 1, true},
		{"二", 2, true},
		{"九", 9, true},
		{"十", 10, true},
		{"十一", 11, true},
		{"十九", 19, true},
		{"二十", 20, true},
		{"三十", 30, true},
		{"三十一", 31, true},
		{"四十三", 43, true},
		{"九十九", 99, true},
		{"百", 0, false},
		{"太", 0, false},
		{"", 0, false},
		{"十十", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCnNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseCnMonth(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"正", 1, true},
		{"一", 1, true},
		{"六", 6, true},
		{"十", 10, true},
		{"十二", 12, true},
		{"臘", 12, true},
		{"閏正", 1, true},
		{"閏三", 3, true},
		{"閏十二", 12, true},
		{"十三", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCnMonth(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
