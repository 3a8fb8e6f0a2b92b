package collections

// DefaultCollection names a system-seeded collection every user gets at
// account creation. Default collections cannot be deleted.
type DefaultCollection string

const (
	DefaultCollectionWatchlist  DefaultCollection = "Watchlist"
	DefaultCollectionInProgress DefaultCollection = "In Progress"
	DefaultCollectionCompleted  DefaultCollection = "Completed"
	DefaultCollectionCustom     DefaultCollection = "Custom"
)

// defaultDescriptions maps each default collection to the description it is
// seeded with.
var defaultDescriptions = map[DefaultCollection]string{
	DefaultCollectionWatchlist:  "Things I want to get to eventually.",
	DefaultCollectionInProgress: "Media items that I am currently consuming.",
	DefaultCollectionCompleted:  "Media items that I have completed.",
	DefaultCollectionCustom:     "Items that I have created manually.",
}

// Defaults returns every default collection, in seeding order.
func Defaults() []DefaultCollection {
	return []DefaultCollection{
		DefaultCollectionWatchlist,
		DefaultCollectionInProgress,
		DefaultCollectionCompleted,
		DefaultCollectionCustom,
	}
}

// Description returns the seeded description of a default collection.
func (d DefaultCollection) Description() string {
	return defaultDescriptions[d]
}

// IsDefaultName reports whether a collection name matches a default
// collection and is therefore protected from deletion.
func IsDefaultName(name string) bool {
	for _, d := range Defaults() {
		if string(d) == name {
			return true
		}
	}
	return false
}
