package repository

// Factory describes access to the store's repositories.
type Factory interface {
	Drivers() DriverRepository
	Orders() OrderRepository
	Changes() ChangeFeed
}
