package entity

import (
	"time"
)

// Post carries a snapshot of the author's name and avatar taken at
// creation time; later profile edits do not flow back into it.
// Likes and comments are embedded sub-collections, newest first.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Like is a user reference; at most one per user per post.
type Like struct {
	UserID string `json:"user_id"`
}

// Comment snapshots the commenting user's name and avatar like the
// post does for its author.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// LikedBy reports whether userID already has a like entry on the post.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
