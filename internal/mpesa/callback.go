package mpesa

import (
	"encoding/json"
	"fmt"
	"time"
)

// The gateway posts callbacks shaped as Body.stkCallback with a name/value
// metadata list on success.
type stkCallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string `json:"Name"`
					Value any    `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type CallbackResult struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            int64
	MpesaReceipt      string
	PhoneNumber       string
	// TransactionDate is when the gateway settled the payment, nil when the
	// callback carried none or it could not be parsed.
	TransactionDate *time.Time
}

// Success is true only for result code zero; any other code is a
// cancellation or failure on the customer side.
func (r CallbackResult) Success() bool {
	return r.ResultCode == 0
}

// ParseCallback decodes an STK push callback body.
func ParseCallback(body []byte) (CallbackResult, error) {
	var envelope stkCallbackEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return CallbackResult{}, fmt.Errorf("decode stk callback: %w", err)
	}

	cb := envelope.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return CallbackResult{}, fmt.Errorf("stk callback missing CheckoutRequestID")
	}

	result := CallbackResult{
		MerchantRequestID: cb.MerchantRequestID,
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if v, ok := item.Value.(float64); ok {
				result.Amount = int64(v)
			}
		case "MpesaReceiptNumber":
			if v, ok := item.Value.(string); ok {
				result.MpesaReceipt = v
			}
		case "TransactionDate":
			var raw string
			switch v := item.Value.(type) {
			case float64:
				raw = fmt.Sprintf("%.0f", v)
			case string:
				raw = v
			}
			if ts, err := time.Parse("20060102150405", raw); err == nil {
				result.TransactionDate = &ts
			}
		case "PhoneNumber":
			switch v := item.Value.(type) {
			case float64:
				result.PhoneNumber = fmt.Sprintf("%.0f", v)
			case string:
				result.PhoneNumber = v
			}
		}
	}

	return result, nil
}
