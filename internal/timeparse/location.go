package timeparse

import "sync"

// location is write-once process state: set at startup from the
// configuration document's `location` block and read by every subsequent
// sunrise/sunset parse.
var (
	locationMu  sync.RWMutex
	latitude    float64
	longitude   float64
	locationSet bool
)

// SetLocation configures the (latitude, longitude) used to resolve
// sunrise/sunset phrases. Intended to be called once at startup.
func SetLocation(lat, long float64) {
	locationMu.Lock()
	defer locationMu.Unlock()
	latitude, longitude = lat, long
	locationSet = true
}

func currentLocation() (lat, long float64, ok bool) {
	locationMu.RLock()
	defer locationMu.RUnlock()
	return latitude, longitude, locationSet
}
