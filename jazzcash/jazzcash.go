package jazzcash

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	sandboxBaseURL    = "https://sandbox.jazzcash.com.pk/ApplicationAPI/API/1.1"
	productionBaseURL = "https://payments.jazzcash.com.pk/ApplicationAPI/API/1.1"

	purchasePath = "/Purchase/DoMWalletTransaction"
	inquiryPath  = "/PaymentInquiry/Inquire"

	// DateTimeLayout is the gateway's timestamp format: no zone suffix, no
	// fractional seconds.
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Config holds the merchant credentials and environment for the gateway.
// The hash key is carried for completeness; request signing is handled by the
// gateway side, not recomputed here.
type Config struct {
	MerchantID  string
	Password    string
	HashKey     string
	Environment string // "sandbox" (default) or "production"
	BaseURL     string // overrides the environment base URL when set
}

// PaymentData carries the pp_* field set of a payment request. It is built
// fresh per transaction and discarded after the gateway call returns.
type PaymentData struct {
	Amount            string `json:"pp_Amount"`
	BankID            string `json:"pp_BankID"`
	BillReference     string `json:"pp_BillReference"`
	Description       string `json:"pp_Description"`
	Language          string `json:"pp_Language"`
	MerchantID        string `json:"pp_MerchantID"`
	Password          string `json:"pp_Password"`
	ProductID         string `json:"pp_ProductID"`
	ReturnURL         string `json:"pp_ReturnURL"`
	TxnCurrency       string `json:"pp_TxnCurrency"`
	TxnDateTime       string `json:"pp_TxnDateTime"`
	TxnExpiryDateTime string `json:"pp_TxnExpiryDateTime"`
	TxnRefNo          string `json:"pp_TxnRefNo"`
	TxnType           string `json:"pp_TxnType"`
	Version           string `json:"pp_Version"`
	MPF1              string `json:"ppmpf_1"`
	MPF2              string `json:"ppmpf_2"`
	MPF3              string `json:"ppmpf_3"`
	MPF4              string `json:"ppmpf_4"`
	MPF5              string `json:"ppmpf_5"`
	MobileNumber      string `json:"pp_MobileNumber"`
	CNIC              string `json:"pp_CNIC"`
}

// Gateway is the surface the payment controller depends on. Tests substitute
// a fake; production uses *Client.
type Gateway interface {
	Initialized() bool
	CreateRequest(data PaymentData) (map[string]interface{}, error)
	Inquire(txnRefNo string) ([]byte, error)
}

// Client is an immutable gateway client, constructed once at startup and
// passed into the payment controller.
type Client struct {
	cfg     Config
	baseURL string
	http    *resty.Client
}

func New(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = sandboxBaseURL
		if cfg.Environment == "production" {
			baseURL = productionBaseURL
		}
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http:    resty.New().SetTimeout(30 * time.Second),
	}
}

// Initialized reports whether the client has the credentials it needs
func (c *Client) Initialized() bool {
	return c.cfg.MerchantID != "" && c.cfg.Password != "" && c.cfg.HashKey != ""
}

// CreateRequest sends a payment request to the gateway and returns its
// created-request payload verbatim. Merchant credentials are injected here so
// callers only fill the transaction fields.
func (c *Client) CreateRequest(data PaymentData) (map[string]interface{}, error) {
	if !c.Initialized() {
		return nil, fmt.Errorf("jazzcash is not initialized properly")
	}

	data.MerchantID = c.cfg.MerchantID
	data.Password = c.cfg.Password

	var result map[string]interface{}
	resp, err := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(data).
		SetResult(&result).
		Post(c.baseURL + purchasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway error: %s", resp.String())
	}

	return result, nil
}

// Inquire asks the gateway for the final status of a previously initiated
// transaction. The raw textual payload is returned; parsing is the caller's
// concern so a malformed body can be reported distinctly.
func (c *Client) Inquire(txnRefNo string) ([]byte, error) {
	if !c.Initialized() {
		return nil, fmt.Errorf("jazzcash is not initialized properly")
	}

	body := map[string]string{
		"pp_MerchantID": c.cfg.MerchantID,
		"pp_Password":   c.cfg.Password,
		"pp_TxnRefNo":   txnRefNo,
		"pp_Version":    "1.1",
	}

	resp, err := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.baseURL + inquiryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inquire transaction: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway error: %s", resp.String())
	}

	return resp.Body(), nil
}

// VerificationStatus is the tagged status of an inquiry response. Unknown
// response codes map to StatusUnrecognized rather than being folded into the
// decline branch.
type VerificationStatus int

const (
	StatusUnrecognized VerificationStatus = iota
	StatusApproved
	StatusDeclined
)

// Response codes the gateway documents for failed or pending transactions
var declinedCodes = map[string]bool{
	"101": true, // declined by bank
	"110": true, // transaction not found
	"111": true, // merchant mismatch
	"115": true, // invalid amount
	"121": true, // insufficient balance
	"124": true, // pending
	"157": true, // expired
	"210": true, // invalid credentials
}

// InquiryResponse is the parsed inquiry payload
type InquiryResponse struct {
	ResponseCode    string   `json:"pp_ResponseCode"`
	ResponseMessage string   `json:"pp_ResponseMessage"`
	TxnRefNo        string   `json:"pp_TxnRefNo,omitempty"`
	Amount          string   `json:"pp_Amount,omitempty"`
	TxnCurrency     string   `json:"pp_TxnCurrency,omitempty"`
	CompletedVideos []string `json:"completedVideos,omitempty"`
}

// Status classifies the response code. "000" is the gateway's success code.
func (r *InquiryResponse) Status() VerificationStatus {
	switch {
	case r.ResponseCode == "000":
		return StatusApproved
	case declinedCodes[r.ResponseCode]:
		return StatusDeclined
	default:
		return StatusUnrecognized
	}
}

// ParseInquiryResponse parses the gateway's textual inquiry payload. A parse
// failure is fatal and non-retryable for the caller.
func ParseInquiryResponse(raw []byte) (*InquiryResponse, error) {
	var resp InquiryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response from JazzCash: %v", err)
	}
	return &resp, nil
}

// FormatDateTime renders a timestamp in the gateway's format (UTC)
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}
