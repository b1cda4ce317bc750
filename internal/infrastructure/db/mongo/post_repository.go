package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devconnector/connector-api/internal/core/domain"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type reactionDocument struct {
	ID   primitive.ObjectID `bson:"_id"`
	User primitive.ObjectID `bson:"user"`
}

type commentDocument struct {
	ID     primitive.ObjectID `bson:"_id"`
	User   primitive.ObjectID `bson:"user"`
	Text   string             `bson:"text"`
	Name   string             `bson:"name"`
	Avatar string             `bson:"avatar"`
	Date   time.Time          `bson:"date"`
}

type postDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	User     primitive.ObjectID `bson:"user"`
	Text     string             `bson:"text"`
	Name     string             `bson:"name"`
	Avatar   string             `bson:"avatar"`
	Likes    []reactionDocument `bson:"likes"`
	Dislikes []reactionDocument `bson:"dislikes"`
	Comments []commentDocument  `bson:"comments"`
	Date     time.Time          `bson:"date"`
}

// toPostDocument maps p to its stored form. Entries without an id get a new
// ObjectID and p is updated in place so callers see the assigned ids.
func toPostDocument(p *domain.Post) (postDocument, error) {
	owner, ok := parseID(p.User)
	if !ok {
		return postDocument{}, fmt.Errorf("post owner %q is not an object id", p.User)
	}

	doc := postDocument{
		ID:       ensureID(p.ID),
		User:     owner,
		Text:     p.Text,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Date:     p.Date.UTC(),
		Likes:    make([]reactionDocument, 0, len(p.Likes)),
		Dislikes: make([]reactionDocument, 0, len(p.Dislikes)),
		Comments: make([]commentDocument, 0, len(p.Comments)),
	}
	p.ID = doc.ID.Hex()

	var err error
	if doc.Likes, err = toReactionDocuments(p.Likes); err != nil {
		return postDocument{}, err
	}
	if doc.Dislikes, err = toReactionDocuments(p.Dislikes); err != nil {
		return postDocument{}, err
	}

	for i := range p.Comments {
		c := &p.Comments[i]
		user, ok := parseID(c.User)
		if !ok {
			return postDocument{}, fmt.Errorf("comment author %q is not an object id", c.User)
		}
		oid := ensureID(c.ID)
		c.ID = oid.Hex()
		doc.Comments = append(doc.Comments, commentDocument{
			ID:     oid,
			User:   user,
			Text:   c.Text,
			Name:   c.Name,
			Avatar: c.Avatar,
			Date:   c.Date.UTC(),
		})
	}
	return doc, nil
}

func toReactionDocuments(rs []domain.Reaction) ([]reactionDocument, error) {
	out := make([]reactionDocument, 0, len(rs))
	for i := range rs {
		user, ok := parseID(rs[i].User)
		if !ok {
			return nil, fmt.Errorf("reaction user %q is not an object id", rs[i].User)
		}
		oid := ensureID(rs[i].ID)
		rs[i].ID = oid.Hex()
		out = append(out, reactionDocument{ID: oid, User: user})
	}
	return out, nil
}

func (d *postDocument) toDomain() *domain.Post {
	p := &domain.Post{
		ID:       hexOrNil(d.ID),
		User:     hexOrNil(d.User),
		Text:     d.Text,
		Name:     d.Name,
		Avatar:   d.Avatar,
		Date:     d.Date.UTC(),
		Likes:    make([]domain.Reaction, 0, len(d.Likes)),
		Dislikes: make([]domain.Reaction, 0, len(d.Dislikes)),
		Comments: make([]domain.Comment, 0, len(d.Comments)),
	}
	for _, r := range d.Likes {
		p.Likes = append(p.Likes, domain.Reaction{ID: hexOrNil(r.ID), User: hexOrNil(r.User)})
	}
	for _, r := range d.Dislikes {
		p.Dislikes = append(p.Dislikes, domain.Reaction{ID: hexOrNil(r.ID), User: hexOrNil(r.User)})
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, domain.Comment{
			ID:     hexOrNil(c.ID),
			User:   hexOrNil(c.User),
			Text:   c.Text,
			Name:   c.Name,
			Avatar: c.Avatar,
			Date:   c.Date.UTC(),
		})
	}
	return p
}

// Create inserts a new post document.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toPostDocument(p)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// List returns all posts sorted by date, newest first.
func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toDomain())
	}
	return posts, nil
}

// FindByID retrieves a post. Malformed ids are reported as not found.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

// Save replaces the stored document with p.
func (r *PostRepository) Save(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toPostDocument(p)
	if err != nil {
		return err
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
