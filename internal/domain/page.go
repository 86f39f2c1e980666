package domain

// Page is the paginated listing envelope.
type Page struct {
	Data     []Product `json:"data"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	LastPage int       `json:"lastPage"`
}

// NewPage builds the envelope. lastPage is ceil(total/limit) and 0 for an empty result.
func NewPage(data []Product, total, page, limit int) Page {
	if data == nil {
		data = []Product{}
	}
	lastPage := 0
	if limit > 0 && total > 0 {
		lastPage = (total + limit - 1) / limit
	}
	return Page{Data: data, Total: total, Page: page, LastPage: lastPage}
}
