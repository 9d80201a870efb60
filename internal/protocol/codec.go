package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Wire layout, big-endian:
//
//	[int32 kind][int32 jsonLen][jsonLen bytes UTF-8 JSON object][rest = payload]
//
// A zero-length JSON block decodes to an empty map. An absent payload is
// simply omitted; there is no padding or sentinel.

const headerSize = 8

// ErrTruncated is returned when a frame is too short to carry the fixed
// header or its declared JSON block.
var ErrTruncated = errors.New("protocol: truncated frame")

// Encode serializes a message into the binary envelope.
func Encode(kind MessageKind, data map[string]Value, payload []byte) ([]byte, error) {
	jsonBlock, err := json.Marshal(Object(data))
	if err != nil {
		return nil, fmt.Errorf("protocol: encode metadata: %w", err)
	}

	buf := make([]byte, headerSize, headerSize+len(jsonBlock)+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(kind))
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(jsonBlock)))
	buf = append(buf, jsonBlock...)
	buf = append(buf, payload...)
	return buf, nil
}

// EncodeMessage serializes an already constructed message.
func EncodeMessage(m Message) ([]byte, error) {
	return Encode(m.Kind, m.Data, m.Payload)
}

// Decode parses the binary envelope. A malformed JSON block degrades to an
// empty metadata map rather than failing: bad metadata must never tear down
// the channel. Only a structurally truncated frame is an error.
func Decode(frame []byte) (Message, error) {
	if len(frame) < headerSize {
		return Message{}, ErrTruncated
	}

	kind := MessageKind(int32(binary.BigEndian.Uint32(frame[0:4])))
	jsonLen := int(int32(binary.BigEndian.Uint32(frame[4:8])))
	if jsonLen < 0 || headerSize+jsonLen > len(frame) {
		return Message{}, ErrTruncated
	}

	data := map[string]Value{}
	if jsonLen > 0 {
		parsed, err := ParseValue(frame[headerSize : headerSize+jsonLen])
		if err == nil {
			if obj, ok := parsed.AsObject(); ok {
				data = obj
			}
		}
	}

	payload := make([]byte, len(frame)-headerSize-jsonLen)
	copy(payload, frame[headerSize+jsonLen:])

	return Message{Kind: kind, Data: data, Payload: payload}, nil
}
