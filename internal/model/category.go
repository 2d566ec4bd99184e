package model

// Category groups goals by life area. MainGoalID is derived on every
// normalization pass: the prioritaire OUTCOME of the category, or empty.
type Category struct {
	ID         CategoryID `json:"id"`
	Name       string     `json:"name"`
	Color      string     `json:"color,omitempty"`
	MainGoalID GoalID     `json:"mainGoalId,omitempty"`
}
