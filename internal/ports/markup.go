package ports

// TagAttributes gives attribute-level access to one tag occurrence
type TagAttributes interface {
	Name() string
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(keys ...string)
	RemoveFunc(match func(key string) bool)
}

// TagEditor rewrites attributes of selected tags in an HTML fragment
// without building a document tree. Everything the edit callback does not
// touch is written back byte for byte.
type TagEditor interface {
	Edit(fragment string, tags []string, edit func(TagAttributes)) (string, error)
}
