package razorpay_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workhive/workhive/pkg/razorpay"
)

func testCreds(baseURL string) razorpay.Credentials {
	return razorpay.Credentials{
		KeyID:     "rzp_test_abcdefgh123456",
		KeySecret: strings.Repeat("s", 32),
		BaseURL:   baseURL,
	}
}

func TestCredentialValidation(t *testing.T) {
	cases := []struct {
		name  string
		creds razorpay.Credentials
		field string // expected failing field, "" = valid
	}{
		{"valid test key", testCreds(""), ""},
		{"valid live key", razorpay.Credentials{
			KeyID: "rzp_live_abcdefgh123456ABCD", KeySecret: strings.Repeat("x", 40),
		}, ""},
		{"key too short", razorpay.Credentials{
			KeyID: "rzp_test_short", KeySecret: strings.Repeat("s", 32),
		}, "key_id"},
		{"missing prefix", razorpay.Credentials{
			KeyID: "abcdefgh12345678901234", KeySecret: strings.Repeat("s", 32),
		}, "key_id"},
		{"secret too short", razorpay.Credentials{
			KeyID: "rzp_test_abcdefgh123456", KeySecret: "short",
		}, "key_secret"},
		{"bad base url", razorpay.Credentials{
			KeyID: "rzp_test_abcdefgh123456", KeySecret: strings.Repeat("s", 32),
			BaseURL: "not-a-url",
		}, "base_url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.creds.Validate()
			if tc.field == "" {
				require.Empty(t, errs)
			} else {
				require.Contains(t, errs, tc.field)
			}
		})
	}
}

func TestMaskedKeyID(t *testing.T) {
	c := razorpay.Credentials{KeyID: "rzp_test_abcdefgh123456"}
	masked := c.MaskedKeyID()
	require.True(t, strings.HasPrefix(masked, "rzp_test_"))
	require.True(t, strings.HasSuffix(masked, "3456"))
	require.NotContains(t, masked, "abcdefgh")
}

func TestSignatureRoundTrip(t *testing.T) {
	secret := strings.Repeat("s", 32)
	sig := razorpay.Sign("order_123", "pay_456", secret)

	require.True(t, razorpay.VerifySignature("order_123", "pay_456", sig, secret))
	require.False(t, razorpay.VerifySignature("order_123", "pay_456", sig, "other-secret-other-secret-other!"))
	require.False(t, razorpay.VerifySignature("order_999", "pay_456", sig, secret))
	require.False(t, razorpay.VerifySignature("order_123", "pay_456", sig+"00", secret))
	require.False(t, razorpay.VerifySignature("order_123", "pay_456", "", secret))
}

func TestMinorUnits(t *testing.T) {
	require.EqualValues(t, 49900, razorpay.MinorUnits(499, "INR"))
	require.EqualValues(t, 1050, razorpay.MinorUnits(10.50, "usd"))
	require.EqualValues(t, 500, razorpay.MinorUnits(500, "JPY"))
	require.EqualValues(t, 100, razorpay.MinorUnits(1, "XYZ")) // unknown defaults to x100
}

func TestCreateOrderConvertsAndAuthenticates(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(razorpay.Order{
			ID: "order_abc", Amount: 49900, Currency: "INR", Status: "created",
		})
	}))
	defer srv.Close()

	client := razorpay.New(testCreds(srv.URL))
	order, err := client.CreateOrder(499, "INR", "rcpt_1")
	require.NoError(t, err)
	require.Equal(t, "order_abc", order.ID)
	require.EqualValues(t, 49900, gotBody["amount"])
	require.True(t, strings.HasPrefix(gotAuth, "Basic "))
}

func TestCaptureRequiresCapturedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(razorpay.Payment{ID: "pay_1", Status: "authorized"})
	}))
	defer srv.Close()

	client := razorpay.New(testCreds(srv.URL))
	_, err := client.Capture("pay_1", 49900, "INR")
	require.Error(t, err)

	var gwErr *razorpay.GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "CAPTURE_INCOMPLETE", gwErr.Code)
}

func TestGatewayErrorDescriptionIsRelayed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Amount exceeds maximum"}}`))
	}))
	defer srv.Close()

	client := razorpay.New(testCreds(srv.URL))
	_, err := client.CreateOrder(1e9, "INR", "rcpt_big")
	require.Error(t, err)

	var gwErr *razorpay.GatewayError
	require.ErrorAs(t, err, &gwErr)
	require.Equal(t, "Amount exceeds maximum", gwErr.Description)
	require.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
}

func TestRefundRequiresProcessedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(razorpay.Refund{ID: "rfnd_1", Status: "processed"})
	}))
	defer srv.Close()

	client := razorpay.New(testCreds(srv.URL))
	refund, err := client.RefundPayment("pay_1")
	require.NoError(t, err)
	require.Equal(t, "rfnd_1", refund.ID)
}
