package models

import "encoding/json"

// Event is the realtime change notification envelope. The backend owns the
// payload; the client interprets only the discriminator and, when present,
// the affected issue id. Everything else stays in Raw, untouched.
type Event struct {
	Type    string          `json:"type"`
	IssueID int64           `json:"issue_id"`
	Raw     json.RawMessage `json:"-"`
}

// DecodeEvent parses a raw realtime frame. Frames that are not JSON objects
// still produce a usable Event (empty discriminator, full payload in Raw):
// per the reconciliation policy any event is merely a hint to refetch.
func DecodeEvent(data []byte) Event {
	ev := Event{Raw: append([]byte(nil), data...)}
	_ = json.Unmarshal(data, &ev)
	return ev
}
