package utils

import (
	"lms/database"
	"lms/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSchedulerTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.PaymentTransaction{}))
	database.Database = database.DbInstance{Db: db}
	return db
}

func seedTransaction(t *testing.T, db *gorm.DB, orderRef string, status models.TransactionStatus, expiresAt time.Time) models.PaymentTransaction {
	transaction := models.PaymentTransaction{
		OrderRef:        orderRef,
		UserID:          1,
		CourseID:        1,
		Amount:          500,
		TxnRefNo:        "TXN-" + orderRef,
		Status:          status,
		TransactionDate: time.Now(),
		ExpiresAt:       &expiresAt,
	}
	require.NoError(t, db.Create(&transaction).Error)
	return transaction
}

func TestExpireStaleTransactions(t *testing.T) {
	db := setupSchedulerTest(t)

	stale := seedTransaction(t, db, "stale", models.TransactionStatusPending, time.Now().Add(-time.Hour))
	fresh := seedTransaction(t, db, "fresh", models.TransactionStatusPending, time.Now().Add(time.Hour))
	settled := seedTransaction(t, db, "settled", models.TransactionStatusCompleted, time.Now().Add(-time.Hour))

	ExpireStaleTransactions()

	var reloaded models.PaymentTransaction
	require.NoError(t, db.First(&reloaded, stale.ID).Error)
	assert.Equal(t, models.TransactionStatusExpired, reloaded.Status)

	reloaded = models.PaymentTransaction{}
	require.NoError(t, db.First(&reloaded, fresh.ID).Error)
	assert.Equal(t, models.TransactionStatusPending, reloaded.Status)

	// Completed transactions are never touched by the sweep
	reloaded = models.PaymentTransaction{}
	require.NoError(t, db.First(&reloaded, settled.ID).Error)
	assert.Equal(t, models.TransactionStatusCompleted, reloaded.Status)
}

func TestExpireStaleTransactions_NoPending(t *testing.T) {
	db := setupSchedulerTest(t)
	seedTransaction(t, db, "done", models.TransactionStatusCompleted, time.Now().Add(-time.Hour))

	// Must not panic or mutate anything
	ExpireStaleTransactions()

	var count int64
	db.Model(&models.PaymentTransaction{}).Where("status = ?", models.TransactionStatusExpired).Count(&count)
	assert.Zero(t, count)
}
