package security

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrMalformedResponseToken = errors.New("malformed response token")

// ResponseToken is the opaque value embedded in emailed accept/reject links.
// It binds the link to the intended assignment and volunteer so a tampered
// link cannot redirect a response to someone else's row. It is not an
// authentication credential; identity reconciliation still applies.
type ResponseToken struct {
	AssignmentID string
	VolunteerID  string
	IssuedAt     time.Time
}

func EncodeResponseToken(assignmentID, volunteerID string, issuedAt time.Time) string {
	raw := fmt.Sprintf("%s:%s:%d", assignmentID, volunteerID, issuedAt.UnixMilli())
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func DecodeResponseToken(token string) (*ResponseToken, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrMalformedResponseToken
	}
	parts := strings.SplitN(string(raw), ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformedResponseToken
	}
	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrMalformedResponseToken
	}
	return &ResponseToken{
		AssignmentID: parts[0],
		VolunteerID:  parts[1],
		IssuedAt:     time.UnixMilli(millis),
	}, nil
}
