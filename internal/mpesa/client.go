package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	SandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	ProductionBaseURL = "https://api.safaricom.co.ke"
)

// Config is read from the environment. Sandbox is the default so a
// misconfigured deployment never hits the live gateway by accident.
type Config struct {
	Environment        string
	ConsumerKey        string
	ConsumerSecret     string
	ShortCode          string
	Passkey            string
	CallbackURL        string
	InitiatorName      string
	SecurityCredential string
	BaseURL            string
}

func ConfigFromEnv() Config {
	cfg := Config{
		Environment:        os.Getenv("MPESA_ENVIRONMENT"),
		ConsumerKey:        os.Getenv("MPESA_CONSUMER_KEY"),
		ConsumerSecret:     os.Getenv("MPESA_CONSUMER_SECRET"),
		ShortCode:          os.Getenv("MPESA_SHORTCODE"),
		Passkey:            os.Getenv("MPESA_PASSKEY"),
		CallbackURL:        os.Getenv("MPESA_CALLBACK_URL"),
		InitiatorName:      os.Getenv("MPESA_INITIATOR_NAME"),
		SecurityCredential: os.Getenv("MPESA_SECURITY_CREDENTIAL"),
	}
	if cfg.Environment == "production" {
		cfg.BaseURL = ProductionBaseURL
	} else {
		cfg.BaseURL = SandboxBaseURL
	}
	return cfg
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
	logger     *zap.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger ...*zap.Logger) *Client {
	l := zap.L().Named("mpesa.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mpesa.client")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, httpClient: httpClient, now: time.Now, logger: l}
}

// NormalizePhone converts local notations to the 254XXXXXXXXX wire format.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")
	if strings.HasPrefix(phone, "0") {
		return "254" + phone[1:]
	}
	if !strings.HasPrefix(phone, "254") {
		return "254" + phone
	}
	return phone
}

// password is base64(shortcode + passkey + timestamp) per the Daraja spec.
func (c *Client) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.cfg.ShortCode + c.cfg.Passkey + timestamp))
}

func (c *Client) timestamp() string {
	return c.now().Format("20060102150405")
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// RequestAccessToken performs the client-credentials OAuth exchange.
func (c *Client) RequestAccessToken(ctx context.Context) (string, error) {
	url := c.cfg.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mpesa oauth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("mpesa oauth failed: status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("mpesa oauth decode: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("mpesa oauth returned empty token")
	}
	return tokenResp.AccessToken, nil
}

type STKPushResult struct {
	Success           bool
	CheckoutRequestID string
	MerchantRequestID string
	ResponseCode      string
	Message           string
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
	ErrorMessage        string `json:"errorMessage"`
}

// InitiateSTKPush asks the customer's phone to authorize a payment.
// Amount is in whole shillings.
func (c *Client) InitiateSTKPush(ctx context.Context, phone string, amount int64, accountRef, description string) (STKPushResult, error) {
	token, err := c.RequestAccessToken(ctx)
	if err != nil {
		return STKPushResult{}, err
	}

	timestamp := c.timestamp()
	payload := stkPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          c.password(timestamp),
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            NormalizePhone(phone),
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       NormalizePhone(phone),
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   description,
	}

	var resp stkPushResponse
	if err := c.postJSON(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &resp); err != nil {
		return STKPushResult{}, err
	}

	result := STKPushResult{
		Success:           resp.ResponseCode == "0",
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		ResponseCode:      resp.ResponseCode,
		Message:           resp.CustomerMessage,
	}
	if !result.Success && resp.ErrorMessage != "" {
		result.Message = resp.ErrorMessage
	}

	c.logger.Info("stk push initiated",
		zap.String("checkout_request_id", result.CheckoutRequestID),
		zap.Bool("success", result.Success),
	)
	return result, nil
}

type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type STKQueryResult struct {
	ResponseCode      string `json:"ResponseCode"`
	ResultCode        string `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

// QuerySTKStatus asks the gateway for the outcome of an earlier push.
func (c *Client) QuerySTKStatus(ctx context.Context, checkoutRequestID string) (STKQueryResult, error) {
	token, err := c.RequestAccessToken(ctx)
	if err != nil {
		return STKQueryResult{}, err
	}

	timestamp := c.timestamp()
	payload := stkQueryRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          c.password(timestamp),
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var result STKQueryResult
	if err := c.postJSON(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &result); err != nil {
		return STKQueryResult{}, err
	}
	return result, nil
}

type b2cRequest struct {
	InitiatorName      string `json:"InitiatorName"`
	SecurityCredential string `json:"SecurityCredential"`
	CommandID          string `json:"CommandID"`
	Amount             int64  `json:"Amount"`
	PartyA             string `json:"PartyA"`
	PartyB             string `json:"PartyB"`
	Remarks            string `json:"Remarks"`
	QueueTimeOutURL    string `json:"QueueTimeOutURL"`
	ResultURL          string `json:"ResultURL"`
	Occasion           string `json:"Occasion"`
}

type B2CResult struct {
	ConversationID           string `json:"ConversationID"`
	OriginatorConversationID string `json:"OriginatorConversationID"`
	ResponseCode             string `json:"ResponseCode"`
	ResponseDescription      string `json:"ResponseDescription"`
}

// InitiateB2C pays out from the business shortcode to a phone number,
// used for salary disbursement.
func (c *Client) InitiateB2C(ctx context.Context, phone string, amount int64, remarks string) (B2CResult, error) {
	token, err := c.RequestAccessToken(ctx)
	if err != nil {
		return B2CResult{}, err
	}

	payload := b2cRequest{
		InitiatorName:      c.cfg.InitiatorName,
		SecurityCredential: c.cfg.SecurityCredential,
		CommandID:          "SalaryPayment",
		Amount:             amount,
		PartyA:             c.cfg.ShortCode,
		PartyB:             NormalizePhone(phone),
		Remarks:            remarks,
		QueueTimeOutURL:    c.cfg.CallbackURL,
		ResultURL:          c.cfg.CallbackURL,
		Occasion:           remarks,
	}

	var result B2CResult
	if err := c.postJSON(ctx, "/mpesa/b2c/v1/paymentrequest", token, payload, &result); err != nil {
		return B2CResult{}, err
	}

	c.logger.Info("b2c payment initiated",
		zap.String("conversation_id", result.ConversationID),
		zap.String("response_code", result.ResponseCode),
	)
	return result, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mpesa request %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("mpesa decode %s: status %d: %w", path, resp.StatusCode, err)
	}
	return nil
}
