package barter

import (
	"encoding/json"
	"errors"
)

// User-facing messages. The product speaks Indonesian to its users.
const (
	MsgServerUnreachable = "Backend server tidak tersedia. Pastikan server berjalan di port 8080."
	MsgUnknownError      = "Terjadi kesalahan yang tidak diketahui"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// TranslateError maps a client error to a human-readable message.
// Transport failures become the generic server-unreachable message; backend
// replies surface their own message or error field when present.
func TranslateError(err error) string {
	if err == nil {
		return ""
	}

	var se *StatusError
	if !errors.As(err, &se) {
		return MsgServerUnreachable
	}

	var body errorBody
	if json.Unmarshal([]byte(se.Body), &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}

	if se.Body != "" {
		return se.Body
	}

	return MsgUnknownError
}
