package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitOrder(t *testing.T) {
	var s Signal[int]
	var got []string
	s.Connect(func(v int) { got = append(got, "a") })
	s.Connect(func(v int) { got = append(got, "b") })
	s.Emit(1)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, s.Len())
}

func TestDisconnectIdempotent(t *testing.T) {
	var s Signal[string]
	calls := 0
	c := s.Connect(func(string) { calls++ })
	c.Disconnect()
	c.Disconnect()
	s.Emit("x")
	assert.Zero(t, calls)
	assert.Zero(t, s.Len())

	var nilConn *Connection
	nilConn.Disconnect()
}

func TestDisconnectDuringEmit(t *testing.T) {
	var s Signal[int]
	var second *Connection
	calls := 0
	s.Connect(func(int) { second.Disconnect() })
	second = s.Connect(func(int) { calls++ })
	s.Emit(0)
	assert.Zero(t, calls)
}

func TestGroup(t *testing.T) {
	var a Signal[int]
	var b Signal[bool]
	var g Group
	g.Add(a.Connect(func(int) {}))
	g.Add(b.Connect(func(bool) {}))
	g.DisconnectAll()
	assert.Zero(t, a.Len())
	assert.Zero(t, b.Len())
}
