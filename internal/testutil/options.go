package testutil

// customerData holds all data for a customer to be inserted.
type customerData struct {
	id       int
	name     string
	email    *string
	regionID *int
}

// CustomerOption configures a customer during builder setup.
type CustomerOption func(*customerData)

// Email sets the customer's email.
func Email(email string) CustomerOption {
	return func(c *customerData) { c.email = &email }
}

// InRegion places the customer in a region.
func InRegion(regionID int) CustomerOption {
	return func(c *customerData) { c.regionID = &regionID }
}

// orderData holds all data for an order to be inserted.
type orderData struct {
	id         int
	number     string
	status     string
	customerID int
	shipToID   *int
	lines      []LineData
}

// OrderOption configures an order during builder setup.
type OrderOption func(*orderData)

// Status sets the order status.
func Status(status string) OrderOption {
	return func(o *orderData) { o.status = status }
}

// ShipTo sets the customer the order ships to.
func ShipTo(customerID int) OrderOption {
	return func(o *orderData) { o.shipToID = &customerID }
}

// Lines adds order lines; line numbers follow the argument order.
func Lines(lines ...LineData) OrderOption {
	return func(o *orderData) { o.lines = append(o.lines, lines...) }
}

// LineData holds data for an order line to be inserted.
type LineData struct {
	SKU      string
	Quantity int
}

// Line creates a LineData structure.
func Line(sku string, quantity int) LineData {
	return LineData{SKU: sku, Quantity: quantity}
}
