// Package cart implements the per-session cart ledger and its operations.
package cart

import "errors"

var ErrOutOfStock = errors.New("product is out of stock")
var ErrCartClosed = errors.New("cart is closed")
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

var ErrCartNotFound = errors.New("cart not found")
var ErrFailedToLoadCart = errors.New("failed to load cart")
var ErrFailedToSaveCart = errors.New("failed to save cart")
