package models

type List struct {
	ID     string `json:"_id"`
	Title  string `json:"title"`
	UserID string `json:"_userId"`
}

// ListPatch holds the fields of a partial list update; nil means unchanged.
type ListPatch struct {
	Title *string `json:"title,omitempty"`
}

func (p ListPatch) Empty() bool {
	return p.Title == nil
}
