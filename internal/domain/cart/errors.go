package cart

import "errors"

var ErrInsufficientStock = errors.New("not enough stock for requested quantity")
