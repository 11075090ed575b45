package output

// Printer renders parts of a ResponseView.
type Printer interface {
	PrintStatusLine(view *ResponseView) error
	PrintHeader(view *ResponseView) error
	PrintBody(view *ResponseView) error
}
