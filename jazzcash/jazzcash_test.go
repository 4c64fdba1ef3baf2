package jazzcash

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		MerchantID:  "MC12345",
		Password:    "secret",
		HashKey:     "hashkey",
		Environment: "sandbox",
		BaseURL:     baseURL,
	}
}

func TestInitialized(t *testing.T) {
	assert.True(t, New(testConfig("")).Initialized())

	incomplete := testConfig("")
	incomplete.MerchantID = ""
	assert.False(t, New(incomplete).Initialized())
}

func TestCreateRequest_InjectsCredentials(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Purchase/DoMWalletTransaction", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pp_TxnRefNo":     received["pp_TxnRefNo"],
			"pp_ResponseCode": "000",
			"pp_SecureHash":   "ABCDEF",
		})
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	result, err := client.CreateRequest(PaymentData{
		Amount:      "500",
		TxnRefNo:    "TXN-1700000000000",
		TxnCurrency: "PKR",
		TxnType:     "SALE",
		Version:     "1.1",
	})
	require.NoError(t, err)

	// Credentials come from the client config, not the caller
	assert.Equal(t, "MC12345", received["pp_MerchantID"])
	assert.Equal(t, "secret", received["pp_Password"])
	assert.Equal(t, "TXN-1700000000000", received["pp_TxnRefNo"])

	// The created-request payload is returned verbatim
	assert.Equal(t, "ABCDEF", result["pp_SecureHash"])
	assert.Equal(t, "TXN-1700000000000", result["pp_TxnRefNo"])
}

func TestCreateRequest_NotInitialized(t *testing.T) {
	cfg := testConfig("")
	cfg.Password = ""
	_, err := New(cfg).CreateRequest(PaymentData{})
	assert.Error(t, err)
}

func TestInquire_ReturnsRawBody(t *testing.T) {
	raw := `{"pp_ResponseCode":"000","pp_ResponseMessage":"Success"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/PaymentInquiry/Inquire", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "TXN-42", body["pp_TxnRefNo"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(raw))
	}))
	defer server.Close()

	got, err := New(testConfig(server.URL)).Inquire("TXN-42")
	require.NoError(t, err)
	assert.Equal(t, raw, string(got))
}

func TestParseInquiryResponse(t *testing.T) {
	resp, err := ParseInquiryResponse([]byte(`{"pp_ResponseCode":"000","pp_ResponseMessage":"Success","completedVideos":["v1","v2"]}`))
	require.NoError(t, err)
	assert.Equal(t, "000", resp.ResponseCode)
	assert.Equal(t, []string{"v1", "v2"}, resp.CompletedVideos)

	_, err = ParseInquiryResponse([]byte("<html>not json</html>"))
	assert.Error(t, err)
}

func TestInquiryResponseStatus(t *testing.T) {
	tests := []struct {
		code string
		want VerificationStatus
	}{
		{"000", StatusApproved},
		{"101", StatusDeclined},
		{"124", StatusDeclined},
		{"210", StatusDeclined},
		{"999", StatusUnrecognized},
		{"", StatusUnrecognized},
	}

	for _, tt := range tests {
		resp := &InquiryResponse{ResponseCode: tt.code}
		assert.Equal(t, tt.want, resp.Status(), "code %q", tt.code)
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2025, 3, 9, 18, 4, 5, 123456789, time.UTC)
	got := FormatDateTime(ts)

	assert.Equal(t, "2025-03-09 18:04:05", got)

	// No zone suffix, no fractional seconds
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`), got)
}
