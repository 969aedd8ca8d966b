package domain

// Lecture is the slice of a portal lecture the quiz engine reads.
type Lecture struct {
	ID         string
	Title      string
	CourseID   string
	Order      int
	Content    string
	Transcript string
}

// HasText reports whether there is anything to generate questions from.
func (l *Lecture) HasText() bool {
	return l != nil && (l.Content != "" || l.Transcript != "")
}
