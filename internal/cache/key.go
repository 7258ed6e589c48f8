package cache

const (
	KEY_ITEMS = "items:"
)
