package domain

// Event keys published on the message bus.
const (
	EventAccountRegistered = "account.registered"
	EventAccountApproved   = "account.approved"
	EventAccountBanned     = "account.banned"
	EventAccountPromoted   = "account.promoted"
	EventAccountDeleted    = "account.deleted"

	EventListingCreated = "listing.created"
	EventListingUpdated = "listing.updated"
	EventListingDeleted = "listing.deleted"
)
