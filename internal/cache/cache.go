package cache

// Cache is the read-through layer the stores keep in front of bbolt.
type Cache interface {
	Get(key interface{}) (interface{}, bool)
	Add(key, value interface{})
	Keys() []interface{}
	Delete(key interface{})
	Len() int
}
