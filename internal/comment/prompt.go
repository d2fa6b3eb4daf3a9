package comment

import "fmt"

// BuildPrompt embeds the post caption into a tone-matching instruction.
// The generated comment should read as organic, not AI-written.
func BuildPrompt(caption string) string {
	return fmt.Sprintf(`human-like Instagram comment based on the following post: %q. make sure the reply
Matches the tone of the caption (casual, funny, serious, or sarcastic).
Sounds organic - avoid robotic phrasing, overly perfect grammar, or anything that feels AI-generated.
Uses relatable language, including light slang, emojis (if appropriate), and subtle imperfections like minor typos or abbreviations (e.g., 'lol' or 'omg').
If the caption is humorous or sarcastic, play along without overexplaining the joke.
If the post is serious (e.g., personal struggles, activism), respond with empathy and depth.
Avoid generic praise ('Great post!'); instead, react specifically to the content.
Keep it concise (1-2 sentences max) and compliant with Instagram's guidelines (no spam, harassment, etc.).`, caption)
}
