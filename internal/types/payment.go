package types

import (
	"encoding/json"
	"math"
)

// PaymentState is the tri-state value of one month slot.
type PaymentState int

const (
	PaymentUnset  PaymentState = 0
	PaymentPaid   PaymentState = 1
	PaymentUnpaid PaymentState = 2
)

// Valid reports whether p is one of the three known states.
func (p PaymentState) Valid() bool {
	return p == PaymentUnset || p == PaymentPaid || p == PaymentUnpaid
}

// Next advances the state cyclically: Unset → Paid → Unpaid → Unset.
// Unknown values are treated as Unset.
func (p PaymentState) Next() PaymentState {
	switch p {
	case PaymentPaid:
		return PaymentUnpaid
	case PaymentUnpaid:
		return PaymentUnset
	default:
		return PaymentPaid
	}
}

func (p PaymentState) String() string {
	switch p {
	case PaymentPaid:
		return "paid"
	case PaymentUnpaid:
		return "unpaid"
	default:
		return "unset"
	}
}

// UnmarshalJSON accepts any JSON number. Anything that is not exactly
// 0, 1 or 2 (including null, strings and fractions) decodes as PaymentUnset.
func (p *PaymentState) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil || f != math.Trunc(f) {
		*p = PaymentUnset
		return nil
	}
	v := PaymentState(f)
	if !v.Valid() {
		v = PaymentUnset
	}
	*p = v
	return nil
}
