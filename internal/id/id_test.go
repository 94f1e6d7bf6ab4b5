package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTxnID(t *testing.T) {
	tests := []struct {
		year, month, seq int
		want             string
	}{
		{2023, 1, 1, "2023-01-001"},
		{2023, 12, 99, "2023-12-099"},
		{2023, 5, 123, "2023-05-123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTxnID(tt.year, tt.month, tt.seq))
	}
}

func TestParseTxnID(t *testing.T) {
	year, month, seq, err := ParseTxnID("2023-05-042")
	require.NoError(t, err)
	assert.Equal(t, 2023, year)
	assert.Equal(t, 5, month)
	assert.Equal(t, 42, seq)
}

func TestParseTxnID_Invalid(t *testing.T) {
	for _, in := range []string{"", "2023-05", "abcd-05-001", "2023-xx-001", "2023-13-001", "2023-05-x"} {
		_, _, _, err := ParseTxnID(in)
		assert.Error(t, err, in)
	}
}

func TestSequencer(t *testing.T) {
	s := NewSequencer()
	may := time.Date(2023, time.May, 2, 0, 0, 0, 0, time.UTC)
	june := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2023-05-001", s.Next(may))
	assert.Equal(t, "2023-05-002", s.Next(may.AddDate(0, 0, 10)))
	assert.Equal(t, "2023-06-001", s.Next(june))
	assert.Equal(t, "2023-05-003", s.Next(may))
}
