package cache

import (
	"encoding/json"
	"time"
)

// Cache is the storage behind the optional raw-record cache.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
	Close() error
}

// Decode copies a cached value into out. Memory backends hand back the stored
// value itself and Redis hands back raw JSON.
func Decode(value interface{}, out interface{}) error {
	if raw, ok := value.(json.RawMessage); ok {
		return json.Unmarshal(raw, out)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
