package notation

// scriptedSource replays face values in order, wrapping around. Faces are
// one-based like the dice they stand for.
type scriptedSource struct {
	faces []int
	calls int
}

func (s *scriptedSource) Intn(n int) int {
	face := s.faces[s.calls%len(s.faces)]
	s.calls++
	return (face - 1) % n
}

func newScripted(faces ...int) *scriptedSource {
	return &scriptedSource{faces: faces}
}
