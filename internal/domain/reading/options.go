package reading

// ListPublicationsOptions filters publication listings.
type ListPublicationsOptions struct {
	Kind     *PublicationKind
	SeriesID string
}

// PublicationState selects publications by reading progress.
type PublicationState int

const (
	// StateUnread matches publications with no readings.
	StateUnread PublicationState = iota + 1
	// StateInProgress matches publications with an unfinished reading.
	StateInProgress
)
