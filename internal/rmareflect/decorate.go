package rmareflect

// Decorate applies decorators to t so that the first decorator is the
// outermost.  This is the ordering used by every middleware chain in this
// module:  the first decorator sees a request first.
func Decorate[T any, D ~func(T) T](t T, d ...D) T {
	for i := len(d) - 1; i >= 0; i-- {
		t = d[i](t)
	}

	return t
}
