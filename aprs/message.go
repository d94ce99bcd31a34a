package aprs

import (
	"fmt"
	"strings"
)

const (
	addresseeLen   = 9
	maxMessageBody = 67
	maxMessageID   = 5
)

// MessagePayload formats a message: :ADDRESSEE:body{id. The addressee is
// space-padded to nine characters; id may be empty.
func MessagePayload(to, body, id string) ([]byte, error) {
	to = strings.ToUpper(strings.TrimSpace(to))
	if to == "" || len(to) > addresseeLen {
		return nil, fmt.Errorf("%w: addressee %q must be 1-%d characters", ErrMalformedText, to, addresseeLen)
	}
	if body == "" || len(body) > maxMessageBody {
		return nil, fmt.Errorf("%w: message body must be 1-%d characters", ErrMalformedText, maxMessageBody)
	}
	if strings.ContainsAny(body, "|~{") {
		return nil, fmt.Errorf("%w: message body contains a reserved character", ErrMalformedText)
	}
	if len(id) > maxMessageID {
		return nil, fmt.Errorf("%w: message id %q longer than %d", ErrMalformedText, id, maxMessageID)
	}

	msg := fmt.Sprintf(":%-*s:%s", addresseeLen, to, body)
	if id != "" {
		msg += "{" + id
	}
	return []byte(msg), nil
}

// MessageInfo wraps MessagePayload as a locally produced information
// field. ':' has no entry in the data type table, so the category is
// CategoryUnknown.
func MessageInfo(to, body, id string) (InformationField, error) {
	p, err := MessagePayload(to, body, id)
	if err != nil {
		return InformationField{}, err
	}
	return NewInformationField(p, CategoryUnknown), nil
}

// ParseMessage splits a message payload into addressee, body and id.
func ParseMessage(payload []byte) (to, body, id string, err error) {
	if len(payload) == 0 || payload[0] != ':' {
		return "", "", "", fmt.Errorf("%w: not a message", ErrMalformedText)
	}
	s := string(payload[1:])
	if len(s) < addresseeLen+2 {
		return "", "", "", fmt.Errorf("%w: message too short", ErrMalformedText)
	}

	to = strings.TrimSpace(s[:addresseeLen])
	if to == "" {
		return "", "", "", fmt.Errorf("%w: message recipient is blank", ErrMalformedText)
	}
	if s[addresseeLen] != ':' {
		return "", "", "", fmt.Errorf("%w: missing message body separator ':'", ErrMalformedText)
	}

	rest := s[addresseeLen+1:]
	if i := strings.LastIndex(rest, "{"); i > 0 {
		body = strings.TrimSpace(rest[:i])
		id = strings.TrimSpace(rest[i+1:])
	} else {
		body = strings.TrimSpace(rest)
	}
	if body == "" {
		return "", "", "", fmt.Errorf("%w: message body is blank", ErrMalformedText)
	}
	return to, body, id, nil
}
