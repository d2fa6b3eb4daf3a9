package types

import "time"

// ContentType classifies what kind of media a post carries.
type ContentType string

const (
	ContentImage    ContentType = "image"
	ContentCarousel ContentType = "carousel"
	ContentVideo    ContentType = "video"
)

// Sentiment is the classification assigned to a comment at extraction time.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// CommentRecord is a single comment scraped from a post. Sentiment is
// computed once when the comment is extracted and never changes.
type CommentRecord struct {
	AuthorHandle string    `json:"username"`
	Text         string    `json:"text"`
	Sentiment    Sentiment `json:"sentiment"`
}

// PostRecord is the scrape output for one post.
// EngagementScore is derived (likes + number of comments); it is
// recomputed after comment extraction and never set independently.
type PostRecord struct {
	ID              string          `json:"id"`
	URL             string          `json:"url"`
	PublishedAt     time.Time       `json:"date"`
	ContentType     ContentType     `json:"type"`
	Caption         string          `json:"caption"`
	LikeCount       int             `json:"likes"`
	Comments        []CommentRecord `json:"comments"`
	EngagementScore int             `json:"engagement"`
	Hashtags        []string        `json:"hashtags"`
	Mentions        []string        `json:"mentions"`
	MediaURLs       []string        `json:"mediaUrls,omitempty"`
}

// RecomputeEngagement refreshes the derived engagement score.
func (p *PostRecord) RecomputeEngagement() {
	p.EngagementScore = p.LikeCount + len(p.Comments)
}

// ContentTypeBreakdown partitions posts by content type.
type ContentTypeBreakdown struct {
	Images    int `json:"images"`
	Carousels int `json:"carousels"`
	Videos    int `json:"videos"`
}

// SentimentBreakdown partitions all comments across all posts.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Summary aggregates a set of posts.
type Summary struct {
	TotalLikes           int                  `json:"totalLikes"`
	TotalComments        int                  `json:"totalComments"`
	AverageEngagement    float64              `json:"averageEngagement"`
	MostEngagedPost      *PostRecord          `json:"mostEngagedPost,omitempty"`
	ContentTypeBreakdown ContentTypeBreakdown `json:"contentTypeBreakdown"`
	SentimentBreakdown   SentimentBreakdown   `json:"sentimentBreakdown"`
}

// AnalysisReport is the primary data contract consumers depend on.
type AnalysisReport struct {
	ID                string       `json:"reportId"`
	SubjectHandle     string       `json:"username"`
	GeneratedAt       time.Time    `json:"analysisDate"`
	PeriodDescription string       `json:"period"`
	TotalPosts        int          `json:"totalPosts"`
	Posts             []PostRecord `json:"posts"`
	Summary           Summary      `json:"summary"`
}
