package msgbundle

// MessageSource looks up a single message by key.
//
// Lookup reports false when the key is absent. Implementations are read-only
// once constructed and must be safe for concurrent use.
type MessageSource interface {
	Lookup(key string) (string, bool)
}

var _ MessageSource = (*MapSource)(nil)

// MapSource is a MessageSource over an in-memory map.
type MapSource struct {
	messages map[string]string
}

// NewMapSource copies messages into a new MapSource.
func NewMapSource(messages map[string]string) *MapSource {
	m := make(map[string]string, len(messages))
	for k, v := range messages {
		m[k] = v
	}
	return &MapSource{messages: m}
}

func (s *MapSource) Lookup(key string) (string, bool) {
	v, ok := s.messages[key]
	return v, ok
}

// Len returns the number of messages held.
func (s *MapSource) Len() int { return len(s.messages) }
