package model

// GuideEntry is one set of disposal instructions for a (category,
// sub-detail) pair. An entry whose Instructions slice is empty is treated
// as absent by the resolver.
type GuideEntry struct {
	Category     string
	SubDetail    string
	Instructions []string
}
