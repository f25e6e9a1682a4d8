package booking

import "gitlab.ozon.dev/pupkingeorgij/rental/internal/repository"

// transitions lists the forward moves of an order. canceled is reachable
// from every state except done; done and canceled are terminal.
var transitions = map[repository.OrderStatus][]repository.OrderStatus{
	repository.OrderBooked:     {repository.OrderBookedPaid, repository.OrderCanceled},
	repository.OrderBookedPaid: {repository.OrderIssued, repository.OrderCanceled},
	repository.OrderIssued:     {repository.OrderReturned, repository.OrderCanceled},
	repository.OrderReturned:   {repository.OrderDone, repository.OrderCanceled},
}

// CanTransition reports whether an order may move from one status to another.
// Keeping the same status is always allowed.
func CanTransition(from, to repository.OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
