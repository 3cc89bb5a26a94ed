package models

type Task struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	ListID    string `json:"_listId"`
	Completed bool   `json:"completed"`
}

// TaskPatch holds the fields of a partial task update; nil means unchanged.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}
