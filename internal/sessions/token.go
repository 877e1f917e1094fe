package sessions

import (
	"encoding/json"
	"errors"
	"strings"
)

var errBadPayload = errors.New("invalid token payload")

// TokenPayload is the wire format carried inside the QR image. A manual code
// is the bare session id instead of this JSON object.
type TokenPayload struct {
	SessionID string `json:"sessionId"`
	SubjectID string `json:"subjectId"`
	ClassID   string `json:"classId"`
	TeacherID string `json:"teacherId"`
	Timestamp int64  `json:"timestamp"`
}

func EncodePayload(p TokenPayload) string {
	b, _ := json.Marshal(p)
	return string(b)
}

// IsTokenShaped reports whether raw looks like a JSON payload rather than a
// manual session code.
func IsTokenShaped(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "{")
}

func DecodePayload(raw string) (TokenPayload, error) {
	var p TokenPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return TokenPayload{}, err
	}
	if p.SessionID == "" {
		return TokenPayload{}, errBadPayload
	}
	return p, nil
}
