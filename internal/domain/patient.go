package domain

// Patient is the visit header captured before annotation. It is never persisted.
type Patient struct {
	Name  string `json:"name" validate:"required,max=120"`
	Age   string `json:"age" validate:"omitempty,numeric"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes string `json:"notes" validate:"max=2000"`
}
