package types

// Paper is research-paper metadata scraped from a company's publications page.
type Paper struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Company   string   `json:"company,omitempty"`
	Published string   `json:"published,omitempty"` // as printed or from <time datetime>
	Authors   []string `json:"authors,omitempty"`
}
