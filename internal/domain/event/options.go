package event

// ListEventsOptions filters event listings.
type ListEventsOptions struct {
	Kind    *Kind
	VenueID string
	WorkID  string
}

// ListWorksOptions filters work listings.
type ListWorksOptions struct {
	Kind *WorkKind
}
