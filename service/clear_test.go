package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func TestClearLine(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), "建材采购", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 3, 100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(2, 100, 5, -100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transaction_lines`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	txn, err := ClearLine(db, 100, 2, nil)
	require.NoError(t, err)
	assert.True(t, txn.Lines[1].Cleared)
	assert.NotNil(t, txn.Lines[1].ClearedAt)
	// 另一侧不受影响
	assert.False(t, txn.Lines[0].Cleared)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearLine_RevisedAmount(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), "建材采购", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 3, 100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(2, 100, 5, -100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transaction_lines`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `transaction_lines`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `transaction_lines`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 以银行流水金额 103.25 为准改写交易
	txn, err := ClearLine(db, 100, 2, float64Ptr(103.25))
	require.NoError(t, err)

	// 两侧同时改写且各自保留原符号，合计仍为零
	assert.Equal(t, 103.25, txn.Lines[0].Amount)
	assert.Equal(t, -103.25, txn.Lines[1].Amount)
	assert.True(t, txn.Lines[1].Cleared)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearLine_RevisedAmountRequiresTwoLines(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), "房产购入", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 10, 146000, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(2, 100, 20, -128223, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(3, 100, 1, -17777, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows())

	_, err := ClearLine(db, 100, 3, float64Ptr(18000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "仅支持两条分录")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearLine_LineNotInTransaction(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), "建材采购", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 3, 100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(2, 100, 5, -100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows())

	_, err := ClearLine(db, 100, 999, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不属于该交易")
}

func TestClearLine_ClosedPeriod(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), "建材采购", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 3, 100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(2, 100, 5, -100, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows().
			AddRow(1, "2024-03", now, "admin", "", true, false, "", now, now))

	_, err := ClearLine(db, 100, 2, nil)
	assert.ErrorIs(t, err, ErrPeriodClosed)
}

func TestDeleteTransaction_ClosedPeriod(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 2, 20, 0, 0, 0, 0, time.Local), "旧交易", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows().
			AddRow(1, "2024-03", now, "admin", "", true, false, "", now, now))

	err := DeleteTransaction(db, 100)
	assert.ErrorIs(t, err, ErrPeriodClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTransaction(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 5, 20, 0, 0, 0, 0, time.Local), "误录的交易", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows())

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `transaction_lines`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, DeleteTransaction(db, 100))
	require.NoError(t, mock.ExpectationsWereMet())
}
