package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler sets up the payment maintenance jobs
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Run hourly to expire stale pending transactions
	c.AddFunc("0 * * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running hourly expiry sweep...")
		ExpireStaleTransactions()
	})

	// Run daily at 9 AM to log a payment summary
	c.AddFunc("0 9 * * *", func() {
		LogDailyPaymentSummary()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - hourly expiry sweep, daily summary at 9 AM")
}

// ExpireStaleTransactions marks PENDING transactions past their gateway
// expiry window as EXPIRED. The gateway will not accept them anymore, so the
// rows only mislead the transaction history if left pending.
func ExpireStaleTransactions() {
	db := database.Database.Db

	result := db.Model(&models.PaymentTransaction{}).
		Where("status = ? AND expires_at < ? AND is_deleted = ?", models.TransactionStatusPending, time.Now(), false).
		Update("status", models.TransactionStatusExpired)
	if result.Error != nil {
		log.Printf("[PAYMENT-SCHEDULER] Failed to expire stale transactions: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Expired %d stale transactions", result.RowsAffected)
	}
}

// LogDailyPaymentSummary logs yesterday's completed payment volume
func LogDailyPaymentSummary() {
	db := database.Database.Db

	yesterday := time.Now().AddDate(0, 0, -1)
	start := now.With(yesterday).BeginningOfDay()
	end := now.With(yesterday).EndOfDay()

	var count int64
	var volume float64
	db.Model(&models.PaymentTransaction{}).
		Where("status = ? AND transaction_date BETWEEN ? AND ? AND is_deleted = ?", models.TransactionStatusCompleted, start, end, false).
		Count(&count)
	db.Model(&models.PaymentTransaction{}).
		Where("status = ? AND transaction_date BETWEEN ? AND ? AND is_deleted = ?", models.TransactionStatusCompleted, start, end, false).
		Select("COALESCE(SUM(amount), 0)").Scan(&volume)

	log.Printf("[PAYMENT-SCHEDULER] Daily summary for %s: %d completed payments, PKR %.2f", start.Format("2006-01-02"), count, volume)
}
