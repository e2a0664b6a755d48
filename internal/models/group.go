package models

// Group is a named chat group. Members maps member uid to a membership
// flag: 1 joined, 0 left. The owner is always present with flag 1.
type Group struct {
	ID             string         `json:"group_id"`
	Name           string         `json:"group_name"`
	Owner          string         `json:"group_owner"`
	Members        map[string]int `json:"group_members"`
	Attributes     map[string]any `json:"attributes,omitempty"`
	InvitedMembers []string       `json:"invited_members,omitempty"`
	CreatedAt      int64          `json:"created_at,omitempty"`
}
