package blobstore

// Namespace is a storage subdirectory grouping one kind of image.
type Namespace string

const (
	IdentityDocuments Namespace = "identity-documents"
	ProfilePhotos     Namespace = "profile-photos"
	ListingImages     Namespace = "listing-images"
)

// Namespaces lists every namespace served by the static file boundary.
var Namespaces = []Namespace{IdentityDocuments, ProfilePhotos, ListingImages}

func (n Namespace) Valid() bool {
	for _, ns := range Namespaces {
		if n == ns {
			return true
		}
	}
	return false
}

func (n Namespace) String() string {
	return string(n)
}
