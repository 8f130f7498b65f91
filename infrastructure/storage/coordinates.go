package storage

import (
	"fmt"
	"strconv"
	"strings"

	"webrunner/domain/entities"
	"webrunner/domain/interfaces"
)

const (
	coordinatesSection    = "Coordinates"
	failedLocatorsSection = "FailedXpaths"
)

// CoordinatesStore persists normalised element centres
type CoordinatesStore struct {
	store interfaces.Store
}

// NewCoordinatesStore - wraps a store with the coordinates schema
func NewCoordinatesStore(store interfaces.Store) *CoordinatesStore {
	return &CoordinatesStore{store: store}
}

// Save - stores coordinates as "<x>, <y>"
func (c *CoordinatesStore) Save(key string, coords entities.Coordinates) error {
	value := strconv.FormatFloat(coords.X, 'f', -1, 64) + ", " + strconv.FormatFloat(coords.Y, 'f', -1, 64)
	return c.store.Set(coordinatesSection, key, value)
}

// Load - returns stored coordinates and whether the key exists
func (c *CoordinatesStore) Load(key string) (entities.Coordinates, bool, error) {
	value, ok, err := c.store.Get(coordinatesSection, key)
	if err != nil || !ok {
		return entities.Coordinates{}, ok, err
	}
	coords, err := parseCoordinates(value)
	if err != nil {
		return entities.Coordinates{}, true, fmt.Errorf("invalid coordinates for %s: %w", key, err)
	}
	return coords, true, nil
}

func parseCoordinates(value string) (entities.Coordinates, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return entities.Coordinates{}, fmt.Errorf("expected \"x, y\", got %q", value)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return entities.Coordinates{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return entities.Coordinates{}, err
	}
	return entities.Coordinates{X: x, Y: y}, nil
}

// FailedLocatorStore records the last locator string that failed per key
type FailedLocatorStore struct {
	store interfaces.Store
}

// NewFailedLocatorStore - wraps a store with the failed-locator schema
func NewFailedLocatorStore(store interfaces.Store) *FailedLocatorStore {
	return &FailedLocatorStore{store: store}
}

// Record - stores the literal locator value under key
func (f *FailedLocatorStore) Record(key, locator string) error {
	return f.store.Set(failedLocatorsSection, key, locator)
}

// Lookup - returns the last failed locator recorded under key
func (f *FailedLocatorStore) Lookup(key string) (string, bool, error) {
	return f.store.Get(failedLocatorsSection, key)
}
