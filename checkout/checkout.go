// Package checkout drives the JazzCash checkout sequence from the client
// side: load the gateway script, initiate the order with the backend, open
// the payment widget, then report the result back through the success-email,
// verify and enroll endpoints.
package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// State is the checkout flow's position. The flow only ever moves forward;
// a failure at any step is terminal.
type State int

const (
	StateIdle State = iota
	StateScriptLoading
	StateScriptReady
	StateOrderInitiating
	StateWidgetOpen
	StatePaymentSucceeded
	StatePaymentFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateScriptLoading:
		return "SCRIPT_LOADING"
	case StateScriptReady:
		return "SCRIPT_READY"
	case StateOrderInitiating:
		return "ORDER_INITIATING"
	case StateWidgetOpen:
		return "WIDGET_OPEN"
	case StatePaymentSucceeded:
		return "PAYMENT_SUCCEEDED"
	case StatePaymentFailed:
		return "PAYMENT_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Notifier surfaces user-visible messages (the toast analog)
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// CompletionResult is what the payment widget reports when the user finishes
type CompletionResult struct {
	TxnRefNo  string
	OrderID   string
	PaymentID string
	Amount    float64 // minor units
}

// WidgetOptions configures the gateway payment widget
type WidgetOptions struct {
	Description string
	Order       map[string]interface{} // the capture payload, passed through verbatim
}

// Widget opens the gateway's payment widget and blocks until the user
// completes or abandons the payment
type Widget interface {
	Open(opts WidgetOptions) (CompletionResult, error)
}

// Driver runs the checkout flow against the backend
type Driver struct {
	api       *resty.Client
	scriptURL string
	widget    Widget
	notifier  Notifier
	state     State

	// OnSuccess runs after a verified, enrolled purchase (the navigate +
	// clear-cart analog). Optional.
	OnSuccess func()
}

func NewDriver(baseURL, token, scriptURL string, widget Widget, notifier Notifier) *Driver {
	return &Driver{
		api: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(token).
			SetTimeout(30 * time.Second),
		scriptURL: scriptURL,
		widget:    widget,
		notifier:  notifier,
		state:     StateIdle,
	}
}

// State returns the flow's current state
func (d *Driver) State() State {
	return d.state
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BuyCourse runs the whole checkout sequence for one course. No local state
// is mutated before the final success, so failures need no rollback.
func (d *Driver) BuyCourse(userID, courseID uint, amount float64, returnURL string) error {
	d.state = StateScriptLoading
	if err := d.loadScript(); err != nil {
		return d.fail("JazzCash SDK failed to load", err)
	}
	d.state = StateScriptReady

	d.state = StateOrderInitiating
	order, err := d.capturePayment(userID, courseID, amount, returnURL)
	if err != nil {
		return d.fail("Could not make payment", err)
	}

	d.state = StateWidgetOpen
	result, err := d.widget.Open(WidgetOptions{
		Description: "Thank You for Purchasing the Course",
		Order:       order,
	})
	if err != nil {
		return d.fail("Oops, payment failed", err)
	}

	// Best effort; a lost receipt email must not block verification
	if err := d.sendPaymentSuccessEmail(result); err != nil {
		log.Printf("Payment success email failed: %v", err)
	}

	if err := d.verifyPayment(result.TxnRefNo, userID, courseID); err != nil {
		return d.fail("Could not verify payment", err)
	}

	if err := d.enroll(courseID); err != nil {
		return d.fail("Could not enroll into the course", err)
	}

	d.state = StatePaymentSucceeded
	d.notifier.Success("Payment successful, you are added to the course")
	if d.OnSuccess != nil {
		d.OnSuccess()
	}
	return nil
}

func (d *Driver) fail(msg string, err error) error {
	d.state = StatePaymentFailed
	d.notifier.Error(msg)
	return err
}

func (d *Driver) loadScript() error {
	resp, err := d.api.R().Get(d.scriptURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("script load error: %s", resp.Status())
	}
	return nil
}

func (d *Driver) capturePayment(userID, courseID uint, amount float64, returnURL string) (map[string]interface{}, error) {
	var env apiEnvelope
	resp, err := d.api.R().
		SetBody(map[string]interface{}{
			"userId":    userID,
			"courseId":  courseID,
			"amount":    amount,
			"returnURL": returnURL,
		}).
		SetResult(&env).
		Post("/payment/capture")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || !env.Status {
		return nil, errors.New(envelopeError(resp, env))
	}

	var order map[string]interface{}
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, fmt.Errorf("invalid order payload: %v", err)
	}
	return order, nil
}

func (d *Driver) sendPaymentSuccessEmail(result CompletionResult) error {
	var env apiEnvelope
	resp, err := d.api.R().
		SetBody(map[string]interface{}{
			"orderId":   result.OrderID,
			"paymentId": result.PaymentID,
			"amount":    result.Amount,
		}).
		SetResult(&env).
		Post("/payment/success-email")
	if err != nil {
		return err
	}
	if resp.IsError() || !env.Status {
		return errors.New(envelopeError(resp, env))
	}
	return nil
}

func (d *Driver) verifyPayment(txnRefNo string, userID, courseID uint) error {
	var env apiEnvelope
	resp, err := d.api.R().
		SetBody(map[string]interface{}{
			"txnRefNo": txnRefNo,
			"userId":   userID,
			"courseId": courseID,
		}).
		SetResult(&env).
		Post("/payment/verify")
	if err != nil {
		return err
	}
	if resp.IsError() || !env.Status {
		return errors.New(envelopeError(resp, env))
	}
	return nil
}

func (d *Driver) enroll(courseID uint) error {
	var env apiEnvelope
	resp, err := d.api.R().
		SetBody(map[string]interface{}{
			"courses": []uint{courseID},
		}).
		SetResult(&env).
		Post("/payment/enroll")
	if err != nil {
		return err
	}
	if resp.IsError() || !env.Status {
		return errors.New(envelopeError(resp, env))
	}
	return nil
}

func envelopeError(resp *resty.Response, env apiEnvelope) string {
	if env.Message != "" {
		return env.Message
	}
	return resp.Status()
}
