package nav

// Stack is the back history of a coordinator.
type Stack struct {
	keys []Key
}

// Push adds a key to the top of the stack.
func (s *Stack) Push(k Key) {
	s.keys = append(s.keys, k)
}

// Pop removes and returns the top key.
// Returns false if the stack is empty.
func (s *Stack) Pop() (Key, bool) {
	if len(s.keys) == 0 {
		return "", false
	}
	top := s.keys[len(s.keys)-1]
	s.keys = s.keys[:len(s.keys)-1]
	return top, true
}

// Peek returns the top key without removing it.
func (s *Stack) Peek() (Key, bool) {
	if len(s.keys) == 0 {
		return "", false
	}
	return s.keys[len(s.keys)-1], true
}

// Len returns the number of keys in the stack.
func (s *Stack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns a copy of the stack, bottom first.
func (s *Stack) Keys() []Key {
	if s == nil {
		return nil
	}
	return append([]Key(nil), s.keys...)
}
