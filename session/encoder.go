package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const schemaVersion1 = 1

var errCorruptSession = errors.New("corrupt session blob")

// Encode renders the session as a versioned binary blob.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(schemaVersion1)
	if err := writeString(&buf, s.SessionID); err != nil {
		return nil, err
	}
	if err := writeString(&buf, s.AccountID); err != nil {
		return nil, err
	}
	if err := writeString(&buf, s.Email); err != nil {
		return nil, err
	}
	if err := writeString(&buf, s.Name); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode.
func Decode(data []byte) (*Session, error) {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil || version != schemaVersion1 {
		return nil, errCorruptSession
	}

	var s Session
	if s.SessionID, err = readString(r); err != nil {
		return nil, errCorruptSession
	}
	if s.AccountID, err = readString(r); err != nil {
		return nil, errCorruptSession
	}
	if s.Email, err = readString(r); err != nil {
		return nil, errCorruptSession
	}
	if s.Name, err = readString(r); err != nil {
		return nil, errCorruptSession
	}
	if err = binary.Read(r, binary.BigEndian, &s.CreatedAt); err != nil {
		return nil, errCorruptSession
	}
	if err = binary.Read(r, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, errCorruptSession
	}
	if r.Len() != 0 {
		return nil, errCorruptSession
	}

	return &s, nil
}

func writeString(buf *bytes.Buffer, v string) error {
	if len(v) > 65535 {
		return errors.New("session field too long")
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(v))); err != nil {
		return err
	}
	buf.WriteString(v)
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
