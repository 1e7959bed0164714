package fanout

import "context"

// Broadcast copies every value of in to each of n output channels. The
// consumers share nothing but the values themselves. Outputs are closed when
// in is closed or ctx is done.
func Broadcast[T any](ctx context.Context, in <-chan T, n int) []<-chan T {
	if n <= 0 {
		n = 1
	}
	outs := make([]chan T, n)
	for i := 0; i < n; i++ {
		outs[i] = make(chan T)
	}

	go func() {
		defer func() {
			for _, ch := range outs {
				close(ch)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				for _, ch := range outs {
					select {
					case <-ctx.Done():
						return
					case ch <- v:
					}
				}
			}
		}
	}()

	ro := make([]<-chan T, n)
	for i, ch := range outs {
		ro[i] = ch
	}
	return ro
}
