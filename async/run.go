package async

// Result carries the outcome of a function that can fail, for delivery over a channel.
type Result[T any] struct {
	Value T
	Err   error
}

// Run will run a function in a goroutine, returning its result via a channel.
func Run[T any](f func() T) <-chan T {
	c := make(chan T, 1)
	go func() {
		c <- f()
	}()
	return c
}

// RunResult will run a fallible function in a goroutine, returning its outcome via a
// channel. The channel is buffered, so the goroutine finishes even if nobody receives.
func RunResult[T any](f func() (T, error)) <-chan Result[T] {
	c := make(chan Result[T], 1)
	go func() {
		value, err := f()
		c <- Result[T]{Value: value, Err: err}
	}()
	return c
}
