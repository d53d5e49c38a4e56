package model

// ExtractedBook is a single book record pulled out of a bookshelf photo
// by the vision model. Fields the model could not read stay nil.
type ExtractedBook struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	ISBN      *string `json:"isbn"`
	Genre     *string `json:"genre"`
	PageCount *int    `json:"pageCount"`
}

// EnrichedBook is the result of a Google Books lookup for a single title.
// Title always echoes the input title; when Found is false only Title,
// Found and (optionally) Error carry information.
type EnrichedBook struct {
	Title         string   `json:"title"`
	Found         bool     `json:"found"`
	GoogleBooksID string   `json:"googleBooksId,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Description   string   `json:"description,omitempty"`
	PageCount     int      `json:"pageCount,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	AverageRating float64  `json:"averageRating,omitempty"`
	ISBN10        *string  `json:"isbn10"`
	ISBN13        *string  `json:"isbn13"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	PreviewLink   string   `json:"previewLink,omitempty"`
	Error         string   `json:"error,omitempty"`
}
