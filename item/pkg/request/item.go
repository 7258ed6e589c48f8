package request

// FindItems carries already-typed search filters. Price bounds are inclusive
// integer yen; nil means unbounded.
type FindItems struct {
	Name     string
	MinPrice *int64
	MaxPrice *int64
}
