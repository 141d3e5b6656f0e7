package loader

// Result carries the outcome of an asynchronous load. Exactly one of Value and Err is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// deliver sends a single result on a fresh buffered channel and returns it for reading.
func deliver[T any](v T, err error) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	ch <- Result[T]{Value: v, Err: err}
	return ch
}
