package payroll

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPayroll(t *testing.T) *Payroll {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	p, err := NewPayroll(uuid.New(), start, start.AddDate(0, 0, 6))
	require.NoError(t, err)
	return p
}

func TestNewPayroll_RejectsInvertedPeriod(t *testing.T) {
	start := time.Now()
	_, err := NewPayroll(uuid.New(), start, start.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestPayroll_AddLine(t *testing.T) {
	p := createTestPayroll(t)

	err := p.AddLine(uuid.New(),
		decimal.NewFromInt(6),
		decimal.RequireFromString("150.00"),
		decimal.RequireFromString("50.00"),
		decimal.RequireFromString("25.00"))
	require.NoError(t, err)

	require.Len(t, p.Lines, 1)
	// 6 * 150 + 50 - 25
	assert.True(t, p.Lines[0].NetPay.Equal(decimal.RequireFromString("925.00")))
	assert.True(t, p.Total.Equal(decimal.RequireFromString("925.00")))
}

func TestPayroll_TotalMatchesLineSum(t *testing.T) {
	p := createTestPayroll(t)
	require.NoError(t, p.AddLine(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(100), decimal.Zero, decimal.Zero))
	require.NoError(t, p.AddLine(uuid.New(), decimal.NewFromInt(3), decimal.NewFromInt(200), decimal.Zero, decimal.Zero))

	sum := decimal.Zero
	for _, line := range p.Lines {
		sum = sum.Add(line.NetPay)
	}
	assert.True(t, p.Total.Equal(sum))
}

func TestPayroll_Lifecycle(t *testing.T) {
	p := createTestPayroll(t)

	t.Run("empty payroll cannot be approved", func(t *testing.T) {
		assert.Error(t, p.Approve())
	})

	require.NoError(t, p.AddLine(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(100), decimal.Zero, decimal.Zero))

	t.Run("cannot pay before approval", func(t *testing.T) {
		assert.Error(t, p.MarkPaid())
	})

	require.NoError(t, p.Approve())
	assert.Equal(t, PayrollStatusApproved, p.Status)

	t.Run("approved payroll rejects new lines", func(t *testing.T) {
		assert.Error(t, p.AddLine(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero))
	})

	require.NoError(t, p.MarkPaid())
	assert.Equal(t, PayrollStatusPaid, p.Status)
}
