package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"
)

func TestRecordTransitFund_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	fund := &model.TransitFund{
		TransactionID: "12345",
		Source:        "etrade",
		Destination:   "dwolla",
		Amount:        model.MustDecimal("10.00"),
		Cleared:       false,
	}

	mock.ExpectExec("INSERT INTO transit_funds").
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := ds.RecordTransitFund(context.Background(), fund)
	assert.NoError(t, err)
	assert.Contains(t, created.TransitFundID, "trf_")
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordTransitFund_RequiresTransactionReference(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	_, err = ds.RecordTransitFund(context.Background(), &model.TransitFund{
		Source:      "etrade",
		Destination: "dwolla",
		Amount:      model.MustDecimal("10.00"),
	})
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrInvalidInput))
}

func TestMarkTransitFundCleared(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE transit_funds").
		WithArgs("12345").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, ds.MarkTransitFundCleared(context.Background(), "12345"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTransitFundCleared_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE transit_funds").
		WithArgs("99999").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.MarkTransitFundCleared(context.Background(), "99999")
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))
}

func TestGetUnclearedTransitFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT transit_fund_id, transaction_id").
		WillReturnRows(sqlmock.NewRows([]string{"transit_fund_id", "transaction_id", "source", "destination", "amount", "cleared", "created_at"}).
			AddRow("trf_1", "12345", "etrade", "dwolla", "10.00", false, time.Now()))

	funds, err := ds.GetUnclearedTransitFunds(context.Background())
	assert.NoError(t, err)
	assert.Len(t, funds, 1)
	assert.False(t, funds[0].Cleared)
	assert.True(t, model.MustDecimal("10.00").Equal(funds[0].Amount))
}
