// Package envelope handles the {code, message, data} wrapper that every
// backend endpoint responds with.
package envelope

import (
	"bytes"
	"encoding/json"

	"github.com/dmitrijs2005/cinepass/internal/client/apierr"
	"github.com/dmitrijs2005/cinepass/internal/common"
)

const (
	msgNoResponse = "No response from server"
	msgServer     = "Server error"
	msgNoData     = "Response does not contain data"
)

// Envelope is the generic response wrapper. Absent fields stay nil so that a
// missing code can be told apart from code 0.
type Envelope struct {
	Code    *int            `json:"code,omitempty"`
	Message *string         `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	// Raw is the undecoded body.
	Raw []byte `json:"-"`
}

// Parse decodes an envelope from raw. An empty body yields (nil, nil).
func Parse(raw []byte) (*Envelope, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, apierr.MalformedResponse("Response is not a valid envelope", err)
	}
	env.Raw = raw
	return &env, nil
}

// Success reports whether the code is absent or the success sentinel.
func (e *Envelope) Success() bool {
	return e != nil && (e.Code == nil || *e.Code == common.SuccessCode)
}

// HasData reports whether a non-null data field is present.
func (e *Envelope) HasData() bool {
	return e != nil && len(e.Data) > 0 && !bytes.Equal(bytes.TrimSpace(e.Data), []byte("null"))
}

// Text returns the message, or "" when absent.
func (e *Envelope) Text() string {
	if e == nil || e.Message == nil {
		return ""
	}
	return *e.Message
}

// Check fails unless the envelope is present and successful.
func (e *Envelope) Check() error {
	if e == nil {
		return apierr.Application(msgNoResponse, nil)
	}
	if !e.Success() {
		msg := e.Text()
		if msg == "" {
			msg = msgServer
		}
		return apierr.Application(msg, e.Raw)
	}
	return nil
}

// Unwrap returns the decoded data of a successful envelope.
//
//	movies, err := envelope.Unwrap[[]Movie](env)
func Unwrap[T any](e *Envelope) (T, error) {
	var out T
	if err := e.Check(); err != nil {
		return out, err
	}
	if !e.HasData() {
		return out, apierr.Application(msgNoData, e.Raw)
	}
	if err := json.Unmarshal(e.Data, &out); err != nil {
		return out, apierr.MalformedResponse("Response data could not be decoded", err)
	}
	return out, nil
}
