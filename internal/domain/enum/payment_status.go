package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentStatus is the derived payment state of an invoice. It is recomputed
// from total vs. credit on every mutation and never set by a client.
type PaymentStatus int

const (
	PaymentStatusUnpaid  PaymentStatus = 0
	PaymentStatusPaid    PaymentStatus = 1
	PaymentStatusPartial PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	return [...]string{"unpaid", "paid", "partial"}[s]
}

// ParsePaymentStatus converts a payment status label into its enum value.
func ParsePaymentStatus(str string) (PaymentStatus, error) {
	switch str {
	case "unpaid":
		return PaymentStatusUnpaid, nil
	case "paid":
		return PaymentStatusPaid, nil
	case "partial":
		return PaymentStatusPartial, nil
	}
	return PaymentStatusUnpaid, fmt.Errorf("unknown payment status %q", str)
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "unpaid":
		*s = PaymentStatusUnpaid
	case "paid":
		*s = PaymentStatusPaid
	case "partial":
		*s = PaymentStatusPartial
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
