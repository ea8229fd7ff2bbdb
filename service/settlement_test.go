package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "transaction_id", "account_id", "amount", "cleared", "cleared_at",
		"purpose", "job_id", "vendor_id", "installer_id", "deal_id",
		"rehab_category", "cost_type", "cc_settled", "created_at", "updated_at",
	})
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "code", "type", "purpose", "active", "created_at", "updated_at",
	})
}

func txnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "date", "description", "external_id", "created_at", "updated_at",
	})
}

func TestSettleCardLines(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 5, -120.50, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(2, 100, 5, -79.50, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(accountRows().
			AddRow(5, "招行信用卡", "2000", "liability", "business", true, now, now))

	// 结账保护：核对分录所属交易的日期
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), "建材采购", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `transaction_lines`").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	result, err := SettleCardLines(db, []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, uint(5), result.AccountID)
	assert.Equal(t, "招行信用卡", result.AccountName)
	// 绝对值之和，可直接用于还款转账
	assert.Equal(t, 200.0, result.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleCardLines_MixedAccounts(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 5, -120.50, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now).
			AddRow(2, 101, 6, -79.50, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(accountRows().
			AddRow(5, "招行信用卡", "2000", "liability", "business", true, now, now).
			AddRow(6, "建行信用卡", "2001", "liability", "business", true, now, now))

	// 跨账户选择：报错并指出涉及的账户，不修改任何数据
	_, err := SettleCardLines(db, []uint{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "分属不同账户")
	assert.Contains(t, err.Error(), "招行信用卡")
	assert.Contains(t, err.Error(), "建行信用卡")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSettleCardLines_AlreadySettled(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 5, -120.50, false, nil, "business", nil, nil, nil, nil, "", "", true, now, now))
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(accountRows().
			AddRow(5, "招行信用卡", "2000", "liability", "business", true, now, now))

	_, err := SettleCardLines(db, []uint{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "已核销")
}

func TestSettleCardLines_NotLiabilityAccount(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 3, -120.50, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(accountRows().
			AddRow(3, "经营银行账户", "1000", "asset", "business", true, now, now))

	_, err := SettleCardLines(db, []uint{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不是负债账户")
}

func TestSettleCardLines_MissingLines(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows())

	_, err := SettleCardLines(db, []uint{99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不存在")
}

func TestSettleCardLines_ClosedPeriod(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `transaction_lines`").
		WillReturnRows(lineRows().
			AddRow(1, 100, 5, -50, false, nil, "business", nil, nil, nil, nil, "", "", false, now, now))
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(accountRows().
			AddRow(5, "招行信用卡", "2000", "liability", "business", true, now, now))
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(txnRows().
			AddRow(100, time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), "建材采购", "", now, now))
	mock.ExpectQuery("SELECT .* FROM `closed_periods`").
		WillReturnRows(closedPeriodRows().
			AddRow(1, "2024-03", now, "admin", "", true, false, "", now, now))

	_, err := SettleCardLines(db, []uint{1})
	assert.ErrorIs(t, err, ErrPeriodClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}
