package protocol

// MessageKind identifies the purpose of a framed message on the interview
// channel. The numeric values are part of the wire contract and must not be
// reordered.
type MessageKind int32

const (
	MessageHeartbeat     MessageKind = 0
	MessageClientAudio   MessageKind = 1
	MessageAIAudio       MessageKind = 2
	MessageClientText    MessageKind = 3
	MessageTranscription MessageKind = 4
	MessageAuthRequest   MessageKind = 5
)

func (k MessageKind) String() string {
	switch k {
	case MessageHeartbeat:
		return "heartbeat"
	case MessageClientAudio:
		return "client-audio-send"
	case MessageAIAudio:
		return "ai-audio-response"
	case MessageClientText:
		return "client-text-send"
	case MessageTranscription:
		return "transcription-text"
	case MessageAuthRequest:
		return "client-auth-request"
	default:
		return "unknown"
	}
}

// Message is one framed unit on the channel: a kind, a JSON metadata map and
// an optional binary payload. Messages are immutable after construction and
// never persisted.
type Message struct {
	Kind    MessageKind
	Data    map[string]Value
	Payload []byte
}

// NewMessage builds a message, normalizing nil data and payload to empty so
// that round-tripping through the codec compares equal.
func NewMessage(kind MessageKind, data map[string]Value, payload []byte) Message {
	if data == nil {
		data = map[string]Value{}
	}
	if payload == nil {
		payload = []byte{}
	}
	return Message{Kind: kind, Data: data, Payload: payload}
}

// Equal reports whether two messages carry the same kind, metadata and
// payload bytes.
func (m Message) Equal(other Message) bool {
	if m.Kind != other.Kind {
		return false
	}
	if !Object(m.Data).Equal(Object(other.Data)) {
		return false
	}
	if len(m.Payload) != len(other.Payload) {
		return false
	}
	for i := range m.Payload {
		if m.Payload[i] != other.Payload[i] {
			return false
		}
	}
	return true
}
