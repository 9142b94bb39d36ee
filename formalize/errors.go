package formalize

import "fmt"

// MalformedLineError reports a recognized line that is too short or carries a token that is not
// a finite number. Field positions are fixed, so such a line cannot be skipped safely.
type MalformedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ZeroInputSizeError reports a Compression line whose input size is zero, for which no press
// rate exists.
type ZeroInputSizeError struct {
	Line int
	Site SiteKey
}

func (e *ZeroInputSizeError) Error() string {
	return fmt.Sprintf("line %d: input size of %s is zero, press rate is undefined", e.Line, e.Site)
}
