package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+254712345678", "254712345678"},
		{"0712345678", "254712345678"},
		{"712345678", "254712345678"},
		{"254712345678", "254712345678"},
		{" 0712345678 ", "254712345678"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestPassword(t *testing.T) {
	c := NewClient(Config{ShortCode: "174379", Passkey: "bfb279f9aa9b"}, nil)

	got := c.password("20260316080000")
	want := base64.StdEncoding.EncodeToString([]byte("174379bfb279f9aa9b20260316080000"))
	assert.Equal(t, want, got)
}

func TestTimestampFormat(t *testing.T) {
	c := NewClient(Config{}, nil)
	c.now = func() time.Time {
		return time.Date(2026, 3, 16, 8, 5, 9, 0, time.UTC)
	}
	assert.Equal(t, "20260316080509", c.timestamp())
}

func TestRequestAccessToken(t *testing.T) {
	t.Run("exchanges basic auth credentials for a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/oauth/v1/generate", r.URL.Path)
			assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))

			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)

			json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123", "expires_in": "3599"})
		}))
		defer srv.Close()

		c := NewClient(Config{ConsumerKey: "key", ConsumerSecret: "secret", BaseURL: srv.URL}, srv.Client())
		token, err := c.RequestAccessToken(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "token-123", token)
	})

	t.Run("non-200 surfaces as an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		c := NewClient(Config{BaseURL: srv.URL}, srv.Client())
		_, err := c.RequestAccessToken(context.Background())
		assert.Error(t, err)
	})
}

func TestInitiateSTKPush(t *testing.T) {
	t.Run("signs and sends the push request", func(t *testing.T) {
		var captured stkPushRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/oauth/v1/generate":
				json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
			case "/mpesa/stkpush/v1/processrequest":
				assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
				json.NewEncoder(w).Encode(stkPushResponse{
					MerchantRequestID:   "mr-1",
					CheckoutRequestID:   "ws_CO_16032026",
					ResponseCode:        "0",
					ResponseDescription: "Success. Request accepted for processing",
					CustomerMessage:     "Success. Request accepted for processing",
				})
			default:
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
		}))
		defer srv.Close()

		c := NewClient(Config{
			ShortCode:   "174379",
			Passkey:     "bfb279f9aa9b",
			CallbackURL: "https://example.com/mpesa/callback",
			BaseURL:     srv.URL,
		}, srv.Client())
		c.now = func() time.Time { return time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC) }

		result, err := c.InitiateSTKPush(context.Background(), "0712345678", 47100, "PAY-000001", "March salary")
		assert.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "ws_CO_16032026", result.CheckoutRequestID)

		assert.Equal(t, "174379", captured.BusinessShortCode)
		assert.Equal(t, "254712345678", captured.PhoneNumber)
		assert.Equal(t, "254712345678", captured.PartyA)
		assert.Equal(t, int64(47100), captured.Amount)
		assert.Equal(t, "CustomerPayBillOnline", captured.TransactionType)
		assert.Equal(t, "20260316080000", captured.Timestamp)
		assert.Equal(t, c.password("20260316080000"), captured.Password)
	})

	t.Run("gateway rejection carries the error message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/oauth/v1/generate" {
				json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
				return
			}
			json.NewEncoder(w).Encode(stkPushResponse{
				ResponseCode: "1",
				ErrorMessage: "Invalid PhoneNumber",
			})
		}))
		defer srv.Close()

		c := NewClient(Config{BaseURL: srv.URL}, srv.Client())
		result, err := c.InitiateSTKPush(context.Background(), "0712345678", 100, "PAY-000002", "test")
		assert.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Invalid PhoneNumber", result.Message)
	})
}

func TestParseCallback(t *testing.T) {
	t.Run("successful payment with metadata", func(t *testing.T) {
		body := []byte(`{
			"Body": {
				"stkCallback": {
					"MerchantRequestID": "mr-1",
					"CheckoutRequestID": "ws_CO_16032026",
					"ResultCode": 0,
					"ResultDesc": "The service request is processed successfully.",
					"CallbackMetadata": {
						"Item": [
							{"Name": "Amount", "Value": 47100},
							{"Name": "MpesaReceiptNumber", "Value": "RCH4X8T2LQ"},
							{"Name": "TransactionDate", "Value": 20260316080500},
							{"Name": "PhoneNumber", "Value": 254712345678}
						]
					}
				}
			}
		}`)

		result, err := ParseCallback(body)
		assert.NoError(t, err)
		assert.True(t, result.Success())
		assert.Equal(t, "ws_CO_16032026", result.CheckoutRequestID)
		assert.Equal(t, int64(47100), result.Amount)
		assert.Equal(t, "RCH4X8T2LQ", result.MpesaReceipt)
		assert.Equal(t, "254712345678", result.PhoneNumber)
		assert.NotNil(t, result.TransactionDate)
		assert.Equal(t, time.Date(2026, 3, 16, 8, 5, 0, 0, time.UTC), *result.TransactionDate)
	})

	t.Run("cancelled payment has no metadata", func(t *testing.T) {
		body := []byte(`{
			"Body": {
				"stkCallback": {
					"MerchantRequestID": "mr-2",
					"CheckoutRequestID": "ws_CO_16032027",
					"ResultCode": 1032,
					"ResultDesc": "Request cancelled by user"
				}
			}
		}`)

		result, err := ParseCallback(body)
		assert.NoError(t, err)
		assert.False(t, result.Success())
		assert.Equal(t, 1032, result.ResultCode)
		assert.Empty(t, result.MpesaReceipt)
		assert.Nil(t, result.TransactionDate)
	})

	t.Run("missing checkout id rejected", func(t *testing.T) {
		_, err := ParseCallback([]byte(`{"Body":{"stkCallback":{"ResultCode":0}}}`))
		assert.Error(t, err)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		_, err := ParseCallback([]byte(`{"Body":`))
		assert.Error(t, err)
	})
}
