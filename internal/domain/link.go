package domain

import "time"

type VisitSource string

const (
	VisitSourceLink VisitSource = "link"
	VisitSourceRef  VisitSource = "ref"
)

// Link is a tracked deep link; clicks arrive as /start linktowatch_<id>.
type Link struct {
	ID         int64
	Name       string
	URL        string
	ClickCount int
}

type LinkVisit struct {
	ID                int64
	SourceKind        VisitSource
	SourceID          int64
	VisitorExternalID int64
	CreatedAt         time.Time
}
