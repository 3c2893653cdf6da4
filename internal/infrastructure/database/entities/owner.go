package entities

import "github.com/seoan1210/seoan-server/internal/domain"

// Owner is stored as a nullable column pair. A check constraint on each
// table guarantees exactly one of the two columns is set.

// OwnerToColumns splits a domain owner into the guest/user column pair.
func OwnerToColumns(owner domain.Owner) (guestID, userID *string) {
	id := owner.ID
	if owner.IsGuest() {
		return &id, nil
	}
	return nil, &id
}

// OwnerFromColumns rebuilds the domain owner from the column pair.
func OwnerFromColumns(guestID, userID *string) domain.Owner {
	if guestID != nil {
		return domain.GuestOwner(*guestID)
	}
	if userID != nil {
		return domain.RegisteredOwner(*userID)
	}
	return domain.Owner{}
}
