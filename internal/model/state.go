package model

// Selection is the explicit UI-pointer state threaded through every
// normalization call. It is part of the snapshot, never ambient.
type Selection struct {
	ActiveGoalID GoalID `json:"activeGoalId,omitempty"`
}

// State is the full engine snapshot. Operations treat it as immutable: they
// either hand back the input unchanged or a fresh deep copy.
type State struct {
	Goals      []Goal         `json:"goals"`
	Categories []Category     `json:"categories"`
	Rules      []ScheduleRule `json:"scheduleRules"`
	Selection  Selection      `json:"selection"`
}

func NewState() State {
	return State{}
}

// Clone returns a deep copy of the snapshot.
func (s State) Clone() State {
	out := State{Selection: s.Selection}
	if s.Goals != nil {
		out.Goals = make([]Goal, len(s.Goals))
		for i := range s.Goals {
			out.Goals[i] = s.Goals[i].Clone()
		}
	}
	if s.Categories != nil {
		out.Categories = append([]Category(nil), s.Categories...)
	}
	if s.Rules != nil {
		out.Rules = make([]ScheduleRule, len(s.Rules))
		for i := range s.Rules {
			out.Rules[i] = s.Rules[i].Clone()
		}
	}
	return out
}

// GoalIndex returns the position of a goal, or -1.
func (s *State) GoalIndex(id GoalID) int {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return i
		}
	}
	return -1
}

// GetGoal returns the goal with the given id, or nil.
func (s *State) GetGoal(id GoalID) *Goal {
	if i := s.GoalIndex(id); i >= 0 {
		return &s.Goals[i]
	}
	return nil
}

// CategoryIndex returns the position of a category, or -1.
func (s *State) CategoryIndex(id CategoryID) int {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// GetCategory returns the category with the given id, or nil.
func (s *State) GetCategory(id CategoryID) *Category {
	if i := s.CategoryIndex(id); i >= 0 {
		return &s.Categories[i]
	}
	return nil
}

// MaxOrder returns the highest goal order in the snapshot, 0 when empty.
func (s *State) MaxOrder() int {
	max := 0
	for i := range s.Goals {
		if s.Goals[i].Order > max {
			max = s.Goals[i].Order
		}
	}
	return max
}
