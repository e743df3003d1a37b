package models

// Group represents a set of users sharing costs.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Work Lunch").
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description"`

	// Members is the list of user IDs belonging to this group.
	Members []string `json:"members"`

	// CreatedBy is the user ID of the group creator. The creator is always
	// a member.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
