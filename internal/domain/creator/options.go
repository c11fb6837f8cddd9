package creator

// ListOptions filters creator listings.
type ListOptions struct {
	Kind *Kind
}
