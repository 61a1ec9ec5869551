package testutil

// WithShopTestData adds the standard shop dataset.
//
//	north: alice (1), carol (3)
//	south: bob (2)
//	orders: 10 alice → ships to carol, 11 bob, 12 alice (closed)
func (b *Builder) WithShopTestData() *Builder {
	return b.
		WithRegion(1, "N", "North").
		WithRegion(2, "S", "South").
		WithCustomer(1, "alice", Email("alice@example.com"), InRegion(1)).
		WithCustomer(2, "bob", InRegion(2)).
		WithCustomer(3, "carol", InRegion(1)).
		WithProduct("TEA", "Green tea", 4.5).
		WithProduct("MUG", "Mug", 12).
		WithOrder(10, 1, ShipTo(3), Lines(Line("TEA", 2), Line("MUG", 1))).
		WithOrder(11, 2, Lines(Line("TEA", 1))).
		WithOrder(12, 1, Status("closed"))
}
