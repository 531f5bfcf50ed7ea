package payable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
)

func TestNewBill(t *testing.T) {
	due := time.Now().AddDate(0, 0, 15)

	t.Run("pending by default", func(t *testing.T) {
		bill, err := NewBill("Aluguel março", valueobject.NewMoneyFromCents(250000), due)
		require.NoError(t, err)

		assert.Equal(t, BillStatusPendente, bill.Status)
		assert.Nil(t, bill.PaidAt)
	})

	t.Run("empty description rejected", func(t *testing.T) {
		_, err := NewBill("  ", valueobject.NewMoneyFromCents(100), due)
		assert.Error(t, err)
	})

	t.Run("non positive amount rejected", func(t *testing.T) {
		_, err := NewBill("Energia", valueobject.Zero(), due)
		assert.Error(t, err)
	})
}

func TestBillIsOverdue(t *testing.T) {
	now := time.Now()
	bill, err := NewBill("Energia", valueobject.NewMoneyFromCents(30000), now.AddDate(0, 0, -1))
	require.NoError(t, err)

	assert.True(t, bill.IsOverdue(now))

	require.NoError(t, bill.MarkPaid(now))
	assert.False(t, bill.IsOverdue(now), "paid bills are never overdue")
}

func TestBillMarkPaid(t *testing.T) {
	now := time.Now()
	bill, err := NewBill("Fornecedor", valueobject.NewMoneyFromCents(120000), now.AddDate(0, 0, 10))
	require.NoError(t, err)

	require.NoError(t, bill.MarkPaid(now))
	assert.Equal(t, BillStatusPago, bill.Status)
	require.NotNil(t, bill.PaidAt)
	assert.Equal(t, now, *bill.PaidAt)

	t.Run("double payment rejected", func(t *testing.T) {
		assert.Error(t, bill.MarkPaid(now.Add(time.Hour)))
	})
}
