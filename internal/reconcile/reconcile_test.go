package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stmtbooks/stmtbooks/internal/aggregate"
	"github.com/stmtbooks/stmtbooks/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func statement(begin, end string) model.Statement {
	var s model.Statement
	if begin != "" {
		b := dec(begin)
		s.BeginningBalance = &b
	}
	if end != "" {
		e := dec(end)
		s.EndingBalance = &e
	}
	return s
}

func TestCheck_Match(t *testing.T) {
	totals := aggregate.Totals{
		Revenue:        dec("200.00"),
		CardPurchases:  dec("100.00"),
		OnlinePayments: dec("50.00"),
		TransfersOut:   dec("0.00"),
	}
	res, err := Check(statement("100.00", "150.00"), totals)
	require.NoError(t, err)
	assert.Equal(t, "50.00", res.NetFromBalances.StringFixed(2))
	assert.Equal(t, "50.00", res.NetFromTransactions.StringFixed(2))
	assert.Nil(t, res.Mismatch)
}

func TestCheck_Mismatch(t *testing.T) {
	totals := aggregate.Totals{
		Revenue:        dec("50.00"),
		CardPurchases:  dec("10.00"),
		OnlinePayments: dec("0.00"),
		TransfersOut:   dec("0.00"),
	}
	res, err := Check(statement("100.00", "200.00"), totals)
	require.NoError(t, err)
	assert.Equal(t, "100.00", res.NetFromBalances.StringFixed(2))
	assert.Equal(t, "40.00", res.NetFromTransactions.StringFixed(2))
	require.NotNil(t, res.Mismatch)
	assert.Equal(t, "60.00", res.Mismatch.StringFixed(2))
}

func TestCheck_TransfersOutCount(t *testing.T) {
	totals := aggregate.Totals{
		Revenue:      dec("500.00"),
		TransfersOut: dec("600.00"),
	}
	res, err := Check(statement("1000.00", "900.00"), totals)
	require.NoError(t, err)
	assert.Equal(t, "-100.00", res.NetFromBalances.StringFixed(2))
	assert.Nil(t, res.Mismatch)
}

func TestCheck_NegativeMismatch(t *testing.T) {
	totals := aggregate.Totals{Revenue: dec("30.00")}
	res, err := Check(statement("0.00", "10.00"), totals)
	require.NoError(t, err)
	require.NotNil(t, res.Mismatch)
	assert.Equal(t, "-20.00", res.Mismatch.StringFixed(2))
}

func TestCheck_NoTolerance(t *testing.T) {
	totals := aggregate.Totals{Revenue: dec("10.0001")}
	res, err := Check(statement("0.00", "10.00"), totals)
	require.NoError(t, err)
	require.NotNil(t, res.Mismatch)
	assert.Equal(t, "-0.0001", res.Mismatch.String())
}

func TestCheck_MissingBalance(t *testing.T) {
	tests := []struct {
		begin, end string
		want       string
	}{
		{"", "", "beginning and ending"},
		{"", "1.00", "beginning balance"},
		{"1.00", "", "ending balance"},
	}
	for _, tt := range tests {
		_, err := Check(statement(tt.begin, tt.end), aggregate.Totals{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingBalance)
		assert.Contains(t, err.Error(), tt.want)
	}
}
