// Package catalog provides product and farmer catalog business logic.
package catalog

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrFarmerNotFound = errors.New("farmer not found")
var ErrOptimisticLock = errors.New("optimistic lock error: the record has been modified by another transaction")

var ErrFailedToFindProduct = errors.New("failed to find product")
var ErrFailedToListProducts = errors.New("failed to list products")
var ErrFailedToCreateProduct = errors.New("failed to create product")
var ErrFailedToUpdateProduct = errors.New("failed to update product")
var ErrFailedToFindFarmer = errors.New("failed to find farmer")
var ErrFailedToListFarmers = errors.New("failed to list farmers")
