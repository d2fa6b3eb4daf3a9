package analysis

import (
	"math"
	"time"

	"github.com/drey-val/instapilot/internal/types"
)

// summarize computes the report aggregate. An empty post set yields an
// all-zero summary with no most-engaged post.
func summarize(posts []types.PostRecord) types.Summary {
	if len(posts) == 0 {
		return types.Summary{}
	}

	var s types.Summary
	mostEngaged := 0

	for i, post := range posts {
		s.TotalLikes += post.LikeCount
		s.TotalComments += len(post.Comments)

		switch post.ContentType {
		case types.ContentVideo:
			s.ContentTypeBreakdown.Videos++
		case types.ContentCarousel:
			s.ContentTypeBreakdown.Carousels++
		default:
			s.ContentTypeBreakdown.Images++
		}

		for _, c := range post.Comments {
			switch c.Sentiment {
			case types.SentimentPositive:
				s.SentimentBreakdown.Positive++
			case types.SentimentNegative:
				s.SentimentBreakdown.Negative++
			default:
				s.SentimentBreakdown.Neutral++
			}
		}

		// Strict greater-than keeps the first post on ties.
		if post.EngagementScore > posts[mostEngaged].EngagementScore {
			mostEngaged = i
		}
	}

	total := 0
	for _, post := range posts {
		total += post.EngagementScore
	}
	s.AverageEngagement = math.Round(float64(total)/float64(len(posts))*100) / 100

	top := posts[mostEngaged]
	s.MostEngagedPost = &top

	return s
}

// filterByDate drops posts published before now minus daysBack days.
func filterByDate(posts []types.PostRecord, daysBack int, now time.Time) []types.PostRecord {
	cutoff := now.AddDate(0, 0, -daysBack)

	filtered := make([]types.PostRecord, 0, len(posts))
	for _, post := range posts {
		if !post.PublishedAt.Before(cutoff) {
			filtered = append(filtered, post)
		}
	}
	return filtered
}
