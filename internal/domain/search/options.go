package search

// Options narrows a search to some subject types. Empty means all.
type Options struct {
	SubjectTypes []SubjectType
}
