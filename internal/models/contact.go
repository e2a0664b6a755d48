package models

// Contact is an address-book entry owned by a user within one application
// scope. The photo asset attached to a contact lives separately and can be
// deleted on its own.
type Contact struct {
	UID       string `json:"uid"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
}
