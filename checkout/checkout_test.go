package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

type fakeWidget struct {
	result CompletionResult
	err    error
	opened []WidgetOptions
}

func (w *fakeWidget) Open(opts WidgetOptions) (CompletionResult, error) {
	w.opened = append(w.opened, opts)
	if w.err != nil {
		return CompletionResult{}, w.err
	}
	return w.result, nil
}

type fakeBackend struct {
	mu sync.Mutex

	scriptStatus int
	captureFail  bool
	verifyFail   bool
	emailFail    bool
	enrollFail   bool

	calls []string
}

func (b *fakeBackend) record(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, name)
}

func (b *fakeBackend) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/checkout.js", func(w http.ResponseWriter, r *http.Request) {
		b.record("script")
		if b.scriptStatus != 0 {
			w.WriteHeader(b.scriptStatus)
			return
		}
		w.Write([]byte("// jazzcash sdk"))
	})

	mux.HandleFunc("/payment/capture", func(w http.ResponseWriter, r *http.Request) {
		b.record("capture")
		if b.captureFail {
			writeEnvelope(w, http.StatusInternalServerError, false, "Failed to create payment request!", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "Payment request created successfully!", map[string]interface{}{
			"pp_TxnRefNo":   "TXN-1",
			"pp_SecureHash": "ABCDEF",
		})
	})

	mux.HandleFunc("/payment/success-email", func(w http.ResponseWriter, r *http.Request) {
		b.record("email")
		if b.emailFail {
			writeEnvelope(w, http.StatusInternalServerError, false, "Could not send email!", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "Email sent successfully!", nil)
	})

	mux.HandleFunc("/payment/verify", func(w http.ResponseWriter, r *http.Request) {
		b.record("verify")
		if b.verifyFail {
			writeEnvelope(w, http.StatusBadRequest, false, "Payment verification failed!", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "Payment verified and course progress updated successfully!", nil)
	})

	mux.HandleFunc("/payment/enroll", func(w http.ResponseWriter, r *http.Request) {
		b.record("enroll")
		if b.enrollFail {
			writeEnvelope(w, http.StatusNotFound, false, "course not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "Enrolled in courses successfully!", nil)
	})

	return httptest.NewServer(mux)
}

func writeEnvelope(w http.ResponseWriter, code int, status bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func newTestDriver(backend *fakeBackend, widget Widget, notifier Notifier) (*Driver, *httptest.Server) {
	server := backend.server()
	driver := NewDriver(server.URL, "test-token", server.URL+"/checkout.js", widget, notifier)
	return driver, server
}

func TestBuyCourse_HappyPath(t *testing.T) {
	backend := &fakeBackend{}
	widget := &fakeWidget{result: CompletionResult{TxnRefNo: "TXN-1", OrderID: "ORD-1", PaymentID: "PAY-1", Amount: 50000}}
	notifier := &recordingNotifier{}

	driver, server := newTestDriver(backend, widget, notifier)
	defer server.Close()

	succeeded := false
	driver.OnSuccess = func() { succeeded = true }

	err := driver.BuyCourse(1, 2, 500, "https://example.com/return")
	require.NoError(t, err)

	assert.Equal(t, StatePaymentSucceeded, driver.State())
	assert.True(t, succeeded)
	assert.Equal(t, []string{"script", "capture", "email", "verify", "enroll"}, backend.calls)
	assert.Empty(t, notifier.errors)
	require.Len(t, notifier.successes, 1)

	// The widget receives the capture payload verbatim
	require.Len(t, widget.opened, 1)
	assert.Equal(t, "ABCDEF", widget.opened[0].Order["pp_SecureHash"])
}

func TestBuyCourse_ScriptLoadFailureIsTerminal(t *testing.T) {
	backend := &fakeBackend{scriptStatus: http.StatusBadGateway}
	widget := &fakeWidget{}
	notifier := &recordingNotifier{}

	driver, server := newTestDriver(backend, widget, notifier)
	defer server.Close()

	err := driver.BuyCourse(1, 2, 500, "https://example.com/return")
	require.Error(t, err)

	assert.Equal(t, StatePaymentFailed, driver.State())
	assert.Equal(t, []string{"JazzCash SDK failed to load"}, notifier.errors)
	// The backend is never contacted beyond the script fetch
	assert.Equal(t, []string{"script"}, backend.calls)
	assert.Empty(t, widget.opened)
}

func TestBuyCourse_CaptureFailure(t *testing.T) {
	backend := &fakeBackend{captureFail: true}
	widget := &fakeWidget{}
	notifier := &recordingNotifier{}

	driver, server := newTestDriver(backend, widget, notifier)
	defer server.Close()

	err := driver.BuyCourse(1, 2, 500, "https://example.com/return")
	require.Error(t, err)

	assert.Equal(t, StatePaymentFailed, driver.State())
	assert.Equal(t, []string{"Could not make payment"}, notifier.errors)
	assert.Empty(t, widget.opened)
}

func TestBuyCourse_WidgetFailure(t *testing.T) {
	backend := &fakeBackend{}
	widget := &fakeWidget{err: errors.New("user abandoned payment")}
	notifier := &recordingNotifier{}

	driver, server := newTestDriver(backend, widget, notifier)
	defer server.Close()

	err := driver.BuyCourse(1, 2, 500, "https://example.com/return")
	require.Error(t, err)

	assert.Equal(t, StatePaymentFailed, driver.State())
	assert.Equal(t, []string{"Oops, payment failed"}, notifier.errors)
	// Neither verify nor enroll runs after a widget failure
	assert.Equal(t, []string{"script", "capture"}, backend.calls)
}

func TestBuyCourse_VerifyFailure(t *testing.T) {
	backend := &fakeBackend{verifyFail: true}
	widget := &fakeWidget{result: CompletionResult{TxnRefNo: "TXN-1"}}
	notifier := &recordingNotifier{}

	driver, server := newTestDriver(backend, widget, notifier)
	defer server.Close()

	err := driver.BuyCourse(1, 2, 500, "https://example.com/return")
	require.Error(t, err)

	assert.Equal(t, StatePaymentFailed, driver.State())
	assert.Equal(t, []string{"Could not verify payment"}, notifier.errors)
	// Enrollment never happens without a successful verify
	assert.NotContains(t, backend.calls, "enroll")
}

func TestBuyCourse_EmailFailureDoesNotBlockVerify(t *testing.T) {
	backend := &fakeBackend{emailFail: true}
	widget := &fakeWidget{result: CompletionResult{TxnRefNo: "TXN-1", OrderID: "ORD-1", PaymentID: "PAY-1", Amount: 50000}}
	notifier := &recordingNotifier{}

	driver, server := newTestDriver(backend, widget, notifier)
	defer server.Close()

	err := driver.BuyCourse(1, 2, 500, "https://example.com/return")
	require.NoError(t, err)

	// A lost receipt email is logged, not fatal
	assert.Equal(t, StatePaymentSucceeded, driver.State())
	assert.Contains(t, backend.calls, "verify")
	assert.Contains(t, backend.calls, "enroll")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "PAYMENT_SUCCEEDED", StatePaymentSucceeded.String())
	assert.Equal(t, "PAYMENT_FAILED", StatePaymentFailed.String())
}
