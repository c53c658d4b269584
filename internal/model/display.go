package model

// DisplayKind enumerates what the result area is currently showing.
type DisplayKind string

// Display kinds.
const (
	DisplayIdle            DisplayKind = "idle"
	DisplayPending         DisplayKind = "pending"
	DisplayApproved        DisplayKind = "approved"
	DisplayRejected        DisplayKind = "rejected"
	DisplayValidationError DisplayKind = "validation_error"
	DisplayTransportError  DisplayKind = "transport_error"
	DisplayHTTPError       DisplayKind = "http_error"
	DisplayDomainError     DisplayKind = "domain_error"
)

// DisplayState is the derived, ephemeral outcome of one submit cycle.
type DisplayState struct {
	Percent  *int        `json:"percent,omitempty"`
	Kind     DisplayKind `json:"kind"`
	Label    string      `json:"label,omitempty"`
	Message  string      `json:"message,omitempty"`
	Detail   string      `json:"detail,omitempty"`
	Status   int         `json:"status,omitempty"`
	Approved bool        `json:"approved"`
}

// IsError reports whether the state represents any failure.
func (s DisplayState) IsError() bool {
	switch s.Kind {
	case DisplayValidationError, DisplayTransportError, DisplayHTTPError, DisplayDomainError:
		return true
	default:
		return false
	}
}

// IsResult reports whether the state carries a server decision.
func (s DisplayState) IsResult() bool {
	return s.Kind == DisplayApproved || s.Kind == DisplayRejected
}
