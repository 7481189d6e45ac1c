package models

// Legislation is a bill as returned by the browsing endpoints.
type Legislation struct {
	ID          int64  `json:"id"`
	BillID      int    `json:"bill_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
	State       string `json:"state"`
	Zipcode     string `json:"zipcode"`
	Date        string `json:"date"`
}

// Vote is a yes/no stance on a bill.
type Vote struct {
	Email  string `json:"email"`
	BillID int    `json:"bill_id"`
	Vote   bool   `json:"vote"`
}

// Opinion is a free-text comment on a bill.
type Opinion struct {
	Email   string `json:"email"`
	BillID  int    `json:"bill_id"`
	Opinion string `json:"opinion"`
}
