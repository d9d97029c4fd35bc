package state

// Event tells a shell why it should repaint.
type Event int

const (
	// ContentChanged means the HistoryList or RedoBuffer was mutated.
	ContentChanged Event = iota
	// PreviewMoved means only the cursor preview changed.
	PreviewMoved
)

func (e Event) String() string {
	switch e {
	case ContentChanged:
		return "content-changed"
	case PreviewMoved:
		return "preview-moved"
	default:
		return "unknown"
	}
}

// Listener receives notifications synchronously, after the mutation that
// raised them has completed.
type Listener func(Event)

// Notifier fans events out to its subscribers in subscription order.
type Notifier struct {
	next      int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn and returns a function that removes it again.
func (n *Notifier) Subscribe(fn Listener) func() {
	n.next++
	id := n.next
	n.listeners = append(n.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range n.listeners {
			if sub.id == id {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

func (n *Notifier) emit(e Event) {
	if n == nil {
		return
	}
	for _, sub := range n.listeners {
		sub.fn(e)
	}
}
