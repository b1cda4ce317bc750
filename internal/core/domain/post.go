package domain

import "time"

// Reaction is a like or dislike. Only the acting user is recorded.
type Reaction struct {
	ID   string `json:"_id"`
	User string `json:"user"`
}

// Comment is a reply on a post carrying an author snapshot.
type Comment struct {
	ID     string    `json:"_id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// Post is the aggregate root for the feed. Likes, dislikes and comments are
// embedded and ordered newest first.
type Post struct {
	ID       string     `json:"_id"`
	User     string     `json:"user"`
	Text     string     `json:"text"`
	Name     string     `json:"name"`
	Avatar   string     `json:"avatar"`
	Likes    []Reaction `json:"likes"`
	Dislikes []Reaction `json:"dislikes"`
	Comments []Comment  `json:"comments"`
	Date     time.Time  `json:"date"`
}

// NewPost builds a post owned by userID with the author's display fields
// copied in.
func NewPost(userID, text string, author Author, now time.Time) *Post {
	return &Post{
		User:     userID,
		Text:     text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []Reaction{},
		Dislikes: []Reaction{},
		Comments: []Comment{},
		Date:     now,
	}
}

// OwnedBy reports whether userID created the post.
func (p *Post) OwnedBy(userID string) bool {
	return p.User == userID
}

func (p *Post) HasLiked(userID string) bool    { return indexOfUser(p.Likes, userID) >= 0 }
func (p *Post) HasDisliked(userID string) bool { return indexOfUser(p.Dislikes, userID) >= 0 }

// Like prepends a like for userID. A user can like a post once.
func (p *Post) Like(userID string) error {
	if p.HasLiked(userID) {
		return ErrAlreadyLiked
	}
	p.Likes = prepend(p.Likes, Reaction{User: userID})
	return nil
}

// Unlike removes the like held by userID.
func (p *Post) Unlike(userID string) error {
	i := indexOfUser(p.Likes, userID)
	if i < 0 {
		return ErrNotLiked
	}
	p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
	return nil
}

// Dislike prepends a dislike for userID. A user can dislike a post once.
func (p *Post) Dislike(userID string) error {
	if p.HasDisliked(userID) {
		return ErrAlreadyDisliked
	}
	p.Dislikes = prepend(p.Dislikes, Reaction{User: userID})
	return nil
}

// Undislike removes the dislike held by userID.
func (p *Post) Undislike(userID string) error {
	i := indexOfUser(p.Dislikes, userID)
	if i < 0 {
		return ErrNotDisliked
	}
	p.Dislikes = append(p.Dislikes[:i], p.Dislikes[i+1:]...)
	return nil
}

// AddComment prepends a comment by userID.
func (p *Post) AddComment(userID, text string, author Author, now time.Time) {
	c := Comment{
		User:   userID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   now,
	}
	p.Comments = append([]Comment{c}, p.Comments...)
}

// RemoveComment deletes the comment with commentID. Only its author may
// remove it.
func (p *Post) RemoveComment(commentID, userID string) error {
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if c.User != userID {
			return ErrForbidden
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
		return nil
	}
	return ErrCommentNotFound
}

func indexOfUser(rs []Reaction, userID string) int {
	for i, r := range rs {
		if r.User == userID {
			return i
		}
	}
	return -1
}

func prepend(rs []Reaction, r Reaction) []Reaction {
	return append([]Reaction{r}, rs...)
}
