package checkout

// DeliveryMethod identifies how the buyer receives the order.
type DeliveryMethod string

const (
	DeliveryHome   DeliveryMethod = "home_delivery"
	DeliveryPickup DeliveryMethod = "pickup"
)

// homeDeliveryCharge is the flat home delivery fee in paise.
const homeDeliveryCharge int64 = 5000

// Charge returns the delivery fee in paise for the method, and whether
// the method is known.
func (m DeliveryMethod) Charge() (int64, bool) {
	switch m {
	case DeliveryHome:
		return homeDeliveryCharge, true
	case DeliveryPickup:
		return 0, true
	}
	return 0, false
}

// PaymentMethod identifies how the buyer pays for the order.
type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
	PaymentCOD  PaymentMethod = "cod"
)

// Valid reports whether m is a member of the payment method enumeration.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCard, PaymentCOD:
		return true
	}
	return false
}
