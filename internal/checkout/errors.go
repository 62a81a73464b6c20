package checkout

import "errors"

var ErrEmptyCart = errors.New("cart is empty")
var ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
var ErrInvalidPaymentMethod = errors.New("invalid payment method")
var ErrAddressRequired = errors.New("delivery address is required for home delivery")
