package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	snapshotFormatVersionCurrent = 2
	snapshotFormatVersionV1      = 1
)

func writeString(buf *bytes.Buffer, field, value string) error {
	if len(value) > 255 {
		return errors.New(field + " too long")
	}
	buf.WriteByte(byte(len(value)))
	buf.WriteString(value)
	return nil
}

func readString(reader *bytes.Reader) (string, error) {
	length, err := reader.ReadByte()
	if err != nil {
		return "", err
	}
	value := make([]byte, length)
	if _, err := io.ReadFull(reader, value); err != nil {
		return "", err
	}
	return string(value), nil
}

func Encode(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(snapshotFormatVersionCurrent)

	if err := writeString(&buf, "sessionID", s.SessionID); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "identityID", s.IdentityID); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "email", s.Email); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "name", s.Name); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "role", s.Role); err != nil {
		return nil, err
	}
	if err := writeString(&buf, "department", s.Department); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decode(data []byte) (*Snapshot, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != snapshotFormatVersionCurrent &&
		version != snapshotFormatVersionV1 {
		return nil, errors.New("invalid snapshot version")
	}

	s := &Snapshot{}

	if s.SessionID, err = readString(reader); err != nil {
		return nil, err
	}
	if s.IdentityID, err = readString(reader); err != nil {
		return nil, err
	}
	if s.Email, err = readString(reader); err != nil {
		return nil, err
	}
	if s.Name, err = readString(reader); err != nil {
		return nil, err
	}
	if s.Role, err = readString(reader); err != nil {
		return nil, err
	}
	if version == snapshotFormatVersionCurrent {
		if s.Department, err = readString(reader); err != nil {
			return nil, err
		}
	}

	if err := binary.Read(reader, binary.BigEndian, &s.CreatedAt); err != nil {
		return nil, err
	}

	return s, nil
}
