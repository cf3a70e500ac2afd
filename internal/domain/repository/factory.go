package repository

// Factory describes access to the per-collection repositories.
type Factory interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	OrderLines() OrderLineRepository
	Drivers() DriverRepository
	Ratings() RatingRepository
}
