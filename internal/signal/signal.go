// Package signal provides synchronous observer lists used to notify
// listeners about state changes.
package signal

// Signal is a list of listeners invoked synchronously on Emit.
// The zero value is ready to use. Signals are not safe for concurrent use;
// everything in the canvas runs on the UI goroutine.
type Signal[T any] struct {
	conns []*Connection
	fns   map[*Connection]func(T)
}

// Connection identifies one registered listener.
type Connection struct {
	disconnect func()
}

// Connect registers fn and returns a handle that removes it again.
func (s *Signal[T]) Connect(fn func(T)) *Connection {
	if s.fns == nil {
		s.fns = make(map[*Connection]func(T))
	}
	c := &Connection{}
	c.disconnect = func() { s.remove(c) }
	s.conns = append(s.conns, c)
	s.fns[c] = fn
	return c
}

// Emit calls every connected listener with v, in connection order.
// Listeners disconnected during the emission are not called afterwards;
// listeners connected during the emission are called from the next Emit.
func (s *Signal[T]) Emit(v T) {
	conns := append([]*Connection(nil), s.conns...)
	for _, c := range conns {
		if fn, ok := s.fns[c]; ok {
			fn(v)
		}
	}
}

// Len returns the number of connected listeners.
func (s *Signal[T]) Len() int {
	return len(s.conns)
}

func (s *Signal[T]) remove(c *Connection) {
	if _, ok := s.fns[c]; !ok {
		return
	}
	delete(s.fns, c)
	for i, cc := range s.conns {
		if cc == c {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			break
		}
	}
}

// Disconnect removes the listener. Calling it more than once is a no-op,
// as is calling it on a nil connection.
func (c *Connection) Disconnect() {
	if c == nil || c.disconnect == nil {
		return
	}
	c.disconnect()
	c.disconnect = nil
}

// Group collects connections so they can be torn down together.
type Group struct {
	conns []*Connection
}

// Add records c in the group.
func (g *Group) Add(c *Connection) {
	g.conns = append(g.conns, c)
}

// DisconnectAll disconnects every recorded connection and empties the group.
func (g *Group) DisconnectAll() {
	for _, c := range g.conns {
		c.Disconnect()
	}
	g.conns = nil
}
