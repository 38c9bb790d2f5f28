package esewa

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/config"
)

// StatusComplete is the only callback status that settles a payment.
const StatusComplete = "COMPLETE"

const defaultSignedFields = "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names"

// Client signs outgoing payment forms and verifies gateway callbacks. The
// gateway protocol is HMAC-SHA256 over a comma-joined key=value message,
// base64 encoded.
type Client struct {
	productCode string
	secretKey   string
	successURL  string
	failureURL  string
}

// New builds a gateway client from configuration.
func New(cfg config.ESewaConfig) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("esewa secret key is required")
	}
	if cfg.ProductCode == "" {
		return nil, fmt.Errorf("esewa product code is required")
	}
	return &Client{
		productCode: cfg.ProductCode,
		secretKey:   cfg.SecretKey,
		successURL:  cfg.SuccessURL,
		failureURL:  cfg.FailureURL,
	}, nil
}

// PaymentForm is the signed field set a client posts to the gateway.
type PaymentForm struct {
	Amount           string `json:"amount"`
	TaxAmount        string `json:"tax_amount"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	ServiceCharge    string `json:"product_service_charge"`
	DeliveryCharge   string `json:"product_delivery_charge"`
	SuccessURL       string `json:"success_url"`
	FailureURL       string `json:"failure_url"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// BuildPaymentForm produces the signed form for the given totals.
func (c *Client) BuildPaymentForm(amount, deliveryCharge decimal.Decimal, transactionUUID string) PaymentForm {
	total := amount.Add(deliveryCharge)
	totalStr := total.StringFixed(2)
	signature := c.sign(fmt.Sprintf(
		"total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalStr, transactionUUID, c.productCode,
	))
	return PaymentForm{
		Amount:           amount.StringFixed(2),
		TaxAmount:        "0",
		TotalAmount:      totalStr,
		TransactionUUID:  transactionUUID,
		ProductCode:      c.productCode,
		ServiceCharge:    "0",
		DeliveryCharge:   deliveryCharge.StringFixed(2),
		SuccessURL:       c.successURL,
		FailureURL:       c.failureURL,
		SignedFieldNames: "total_amount,transaction_uuid,product_code",
		Signature:        signature,
	}
}

// Callback is the decoded gateway callback payload.
type Callback struct {
	Status          string
	TransactionCode string
	TotalAmount     decimal.Decimal
	TransactionUUID string
	ProductCode     string

	raw map[string]string
}

// DecodeCallback parses the base64 payload the gateway posts back and checks
// its HMAC signature over the fields the gateway declares as signed.
func (c *Client) DecodeCallback(encoded string) (*Callback, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding callback payload: %w", err)
	}

	raw := map[string]string{}
	if err := json.Unmarshal(decoded, &raw); err != nil {
		return nil, fmt.Errorf("parsing callback payload: %w", err)
	}

	signedFields := raw["signed_field_names"]
	if signedFields == "" {
		signedFields = defaultSignedFields
	}

	parts := make([]string, 0, 8)
	for _, field := range strings.Split(signedFields, ",") {
		parts = append(parts, field+"="+raw[field])
	}
	expected := c.sign(strings.Join(parts, ","))
	if !hmac.Equal([]byte(expected), []byte(raw["signature"])) {
		return nil, fmt.Errorf("callback signature mismatch")
	}

	// The gateway formats amounts with thousands separators.
	totalAmount, err := decimal.NewFromString(strings.ReplaceAll(raw["total_amount"], ",", ""))
	if err != nil {
		return nil, fmt.Errorf("parsing callback total amount: %w", err)
	}

	return &Callback{
		Status:          raw["status"],
		TransactionCode: raw["transaction_code"],
		TotalAmount:     totalAmount,
		TransactionUUID: raw["transaction_uuid"],
		ProductCode:     raw["product_code"],
		raw:             raw,
	}, nil
}

// IsComplete reports whether the gateway settled the payment.
func (cb *Callback) IsComplete() bool {
	return cb.Status == StatusComplete
}

func (c *Client) sign(message string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
