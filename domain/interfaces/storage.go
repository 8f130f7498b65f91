package interfaces

// Store is a flat key/value store grouped in sections
type Store interface {
	// Get returns the value for section.key and whether it exists
	Get(section, key string) (string, bool, error)

	// Set writes section.key, replacing any earlier value
	Set(section, key, value string) error
}
