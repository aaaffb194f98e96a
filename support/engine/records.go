package engine

import (
	"encoding/json"
	"strings"

	"github.com/m3rciful/supportbot/support/i18n"
)

// Screen names the destination a pending marker bridges back to after the
// language picker.
type Screen string

const (
	// ScreenMenu resumes at the main menu.
	ScreenMenu Screen = "MENU"
	// ScreenAskOne resumes at the "send one message" prompt.
	ScreenAskOne Screen = "ASK_ONE"
)

// Pending bridges "awaiting language selection" to the flow that triggered
// it. Deleted once consumed; expires with TTLFlow.
type Pending struct {
	Screen   Screen `json:"screen"`
	Category string `json:"category,omitempty"`
}

const flowAwait = "AWAIT"

// Flow marks that the next private message opens a ticket in Category.
type Flow struct {
	Mode     string `json:"mode"`
	Category string `json:"category,omitempty"`
}

// Awaiting reports whether the marker is live.
func (f Flow) Awaiting() bool {
	return f.Mode == flowAwait
}

func awaitFlow(category string) Flow {
	return Flow{Mode: flowAwait, Category: category}
}

const ticketOpen = "open"

// Ticket is the record of one open support interaction, bound 1:1 to a staff
// thread. CreatedAt is unix milliseconds.
type Ticket struct {
	Status    string    `json:"status"`
	UserID    int64     `json:"userId"`
	ThreadID  int       `json:"threadId"`
	Category  string    `json:"category"`
	Lang      i18n.Lang `json:"lang"`
	CreatedAt int64     `json:"createdAt"`
}

// Open reports whether the record represents a live ticket.
func (t Ticket) Open() bool {
	return t.Status == ticketOpen
}

// ThreadRef maps a staff thread back to the ticket owner. It exists exactly
// as long as the ticket does.
type ThreadRef struct {
	UserID int64 `json:"userId"`
}

// langRecord is the canonical serialization of a language preference. Its
// decoder normalizes the legacy shapes earlier deployments wrote: a bare
// "en"/"ru" string and a double-encoded JSON string. Anything else decodes to
// unset, which re-triggers the language picker.
type langRecord struct {
	Lang i18n.Lang `json:"lang"`
}

func (r *langRecord) UnmarshalJSON(data []byte) error {
	r.Lang = normalizeLang(data)
	return nil
}

func normalizeLang(raw []byte) i18n.Lang {
	var obj struct {
		Lang string `json:"lang"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if l := i18n.Lang(obj.Lang); l.Valid() {
			return l
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	if l := i18n.Lang(strings.TrimSpace(s)); l.Valid() {
		return l
	}
	// Double-encoded legacy value: the string itself holds JSON.
	if strings.ContainsAny(s, "\"{") {
		return normalizeLang([]byte(s))
	}
	return ""
}
