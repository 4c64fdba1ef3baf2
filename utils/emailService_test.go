package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseEnrollmentEmail(t *testing.T) {
	subject, body := CourseEnrollmentEmail("Intro to Go", "Ayesha")

	assert.Equal(t, "Successfully Enrolled into Intro to Go", subject)
	assert.Contains(t, body, "Dear Ayesha,")
	assert.Contains(t, body, "<strong>Intro to Go</strong>")
}

func TestPaymentSuccessEmail(t *testing.T) {
	subject, body := PaymentSuccessEmail("Ayesha", 500, "ORD-1", "PAY-1")

	assert.Equal(t, "Payment Received", subject)
	assert.Contains(t, body, "PKR 500.00")
	assert.Contains(t, body, "ORD-1")
	assert.Contains(t, body, "PAY-1")
}
