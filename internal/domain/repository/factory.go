package repository

// Factory describes access to locally stored repositories.
type Factory interface {
	Cashouts() CashoutRepository
}
