// Package model defines the core domain models used throughout the application.
package model

// Well-known category and sub-detail values produced by the classifier.
const (
	// CategoryUnclassifiable is returned by the classifier when no waste
	// class matched the image description.
	CategoryUnclassifiable = "class 분류 불가"

	// CategoryGeneralWaste is the category unclassifiable items are
	// treated as for guide lookup.
	CategoryGeneralWaste = "일반쓰레기"

	// SubDetailUnclassifiable is returned by the classifier when the
	// category matched but no specific item did.
	SubDetailUnclassifiable = "detail 분류 불가"

	// SubDetailOther is the fallback bucket within a category.
	SubDetailOther = "기타"
)

// Classification is the (category, sub-detail) pair returned by the remote
// classifier for one image.
type Classification struct {
	Category  string
	SubDetail string
	Status    string
}
