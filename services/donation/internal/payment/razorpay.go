package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway creates payment orders with the provider. Orders are always
// created server-side; the client only receives the order id to pay.
type Gateway interface {
	CreateOrder(amount int, currency, receipt string) (string, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

func (g *razorpayGateway) CreateOrder(amount int, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount * 100, // rupees to paise
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("order response missing id")
	}

	return orderID, nil
}

// VerifySignature checks the payment callback signature: an HMAC-SHA256 of
// "<order_id>|<payment_id>" under the key secret, hex encoded.
func VerifySignature(orderID, paymentID, signature, keySecret string) bool {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
