// Package comment generates humanlike Instagram comments through an LLM
// provider. The interaction loop consumes the first candidate and falls
// back to an empty string when none is produced.
package comment

import "context"

// Schema describes the response shape the generator must produce.
type Schema struct {
	Name        string
	Description string
}

// InstagramCommentSchema is the response-shape descriptor for post
// comments.
func InstagramCommentSchema() Schema {
	return Schema{
		Name: "instagram_comment",
		Description: `Respond with a JSON array of objects, each with a "comment" string ` +
			`(the comment text, max 300 characters) and a "viralRate" integer from 0 to 100 ` +
			`estimating how likely the comment is to get engagement.`,
	}
}

// Candidate is one generated comment option.
type Candidate struct {
	Comment   string `json:"comment"`
	ViralRate int    `json:"viralRate"`
}

// Generator produces comment candidates for a prompt. Implementations
// must be safe for sequential reuse across posts.
type Generator interface {
	Generate(ctx context.Context, schema Schema, prompt string) ([]Candidate, error)
}

// FirstComment extracts the comment text the interaction loop should
// type: the first candidate's comment, or empty when there is none.
func FirstComment(candidates []Candidate) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0].Comment
}
