package site

// PageMetadata is the title and description the hosting layer places in
// the document head of every page.
type PageMetadata struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

var metadata = PageMetadata{
	Title:       "TRG's Solidity Learning Hikes",
	Description: "A collection of code walkthroughs for learning Solidity",
}

// Metadata returns the site metadata. The record is fixed at start-up and
// the returned value is a copy.
func Metadata() PageMetadata {
	return metadata
}
