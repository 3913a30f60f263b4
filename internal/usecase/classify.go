package usecase

import "github.com/polkiloo/driverdesk/internal/domain/model"

// Partition splits called orders into what a driver can see.
type Partition struct {
	Pending  []model.Order
	Accepted []model.Order
}

// Classify partitions orders from driverID's point of view.
//
// Pending holds every order not definitively claimed by a driver. Accepted
// holds the orders claimed by driverID. Orders claimed by another driver
// appear in neither list.
func Classify(orders []model.Order, driverID string) Partition {
	p := Partition{
		Pending:  make([]model.Order, 0),
		Accepted: make([]model.Order, 0),
	}
	for _, o := range orders {
		if o.Unclaimed() {
			p.Pending = append(p.Pending, o)
		}
		if o.AcceptedBy(driverID) {
			p.Accepted = append(p.Accepted, o)
		}
	}
	return p
}

// AcceptedIDs lists the ids of accepted orders in partition order.
func (p Partition) AcceptedIDs() []int64 {
	ids := make([]int64, 0, len(p.Accepted))
	for _, o := range p.Accepted {
		ids = append(ids, o.ID)
	}
	return ids
}
