package scheduler

// mailbox creates an unbounded queue. Sends on the returned input channel
// never wait for the receiver; values come out of the output channel in the
// order they were sent. Closing the input closes the output once everything
// queued has been received.
//
// The depth callback is invoked with the queue length whenever it changes.
func mailbox[A any](depth func(int)) (chan<- A, <-chan A) {
	inputCh := make(chan A)
	outputCh := make(chan A)

	go func() {
		var queue []A

		// A nil channel disables the send case while the queue is empty.
		outCh := func() chan A {
			if len(queue) == 0 {
				return nil
			}

			return outputCh
		}

		head := func() A {
			if len(queue) == 0 {
				var zero A

				return zero
			}

			return queue[0]
		}

		in := inputCh

		for len(queue) > 0 || in != nil {
			select {
			case v, ok := <-in:
				if !ok {
					in = nil

					continue
				}

				queue = append(queue, v)
			case outCh() <- head():
				var zero A

				queue[0] = zero
				queue = queue[1:]
			}

			depth(len(queue))
		}

		close(outputCh)
	}()

	return inputCh, outputCh
}
