package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"global-gist/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a post or comment id does not exist.
var ErrNotFound = errors.New("storage: not found")

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it in
// tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists posts and comments in Postgres.
type PostgresStore struct {
	db DB
}

// NewPostgresStore wires a database handle.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Connect opens a pgx pool and verifies connectivity.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS posts (
    id                text PRIMARY KEY,
    topic             text NOT NULL,
    title             text NOT NULL,
    summary           text NOT NULL DEFAULT '',
    content           text NOT NULL DEFAULT '',
    image_url         text NOT NULL DEFAULT '',
    image_description text NOT NULL DEFAULT '',
    youtube_video_id  text NOT NULL DEFAULT '',
    sources           jsonb NOT NULL DEFAULT '[]',
    author_name       text NOT NULL DEFAULT '',
    author_bio        text NOT NULL DEFAULT '',
    author_avatar_url text NOT NULL DEFAULT '',
    created_at        timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS posts_topic_created_idx ON posts (topic, created_at DESC);

CREATE TABLE IF NOT EXISTS comments (
    id         text PRIMARY KEY,
    post_id    text NOT NULL,
    author     text NOT NULL,
    text       text NOT NULL,
    timestamp  bigint NOT NULL DEFAULT 0,
    status     text NOT NULL DEFAULT 'pending',
    created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS comments_post_idx ON comments (post_id, created_at);
`

// EnsureSchema creates the posts and comments tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const postColumns = `id, topic, title, summary, content, image_url, image_description, youtube_video_id, sources, author_name, author_bio, author_avatar_url, created_at`

func scanPost(row pgx.Row) (model.BlogPost, error) {
	var p model.BlogPost
	var sources []byte
	err := row.Scan(&p.ID, &p.Topic, &p.Title, &p.Summary, &p.Content,
		&p.ImageURL, &p.ImageDescription, &p.YouTubeVideoID, &sources,
		&p.Author.Name, &p.Author.Bio, &p.Author.AvatarURL, &p.CreatedAt)
	if err != nil {
		return model.BlogPost{}, err
	}
	p.Sources = []model.GroundingSource{}
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &p.Sources); err != nil {
			return model.BlogPost{}, fmt.Errorf("decode sources for %s: %w", p.ID, err)
		}
	}
	return p, nil
}

// ListPostsByTopic returns one page of posts for a topic, newest first.
func (s *PostgresStore) ListPostsByTopic(ctx context.Context, topic string, page, limit int) ([]model.BlogPost, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	rows, err := s.db.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE topic = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		topic, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()
	posts := []model.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return posts, nil
}

// GetPostByID returns a single post, or ErrNotFound.
func (s *PostgresStore) GetPostByID(ctx context.Context, id string) (model.BlogPost, error) {
	p, err := scanPost(s.db.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BlogPost{}, ErrNotFound
	}
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// ListPostIndex returns the compact id/title/topic listing, newest first.
func (s *PostgresStore) ListPostIndex(ctx context.Context) ([]model.PostRef, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, topic FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query post index: %w", err)
	}
	defer rows.Close()
	refs := []model.PostRef{}
	for rows.Next() {
		var r model.PostRef
		if err := rows.Scan(&r.ID, &r.Title, &r.Topic); err != nil {
			return nil, fmt.Errorf("scan post ref: %w", err)
		}
		refs = append(refs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return refs, nil
}

// InsertPosts stores new posts.
func (s *PostgresStore) InsertPosts(ctx context.Context, posts ...model.BlogPost) error {
	for _, p := range posts {
		sources, err := json.Marshal(p.Sources)
		if err != nil {
			return fmt.Errorf("encode sources for %s: %w", p.ID, err)
		}
		_, err = s.db.Exec(ctx,
			`INSERT INTO posts (`+postColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			p.ID, p.Topic, p.Title, p.Summary, p.Content,
			p.ImageURL, p.ImageDescription, p.YouTubeVideoID, sources,
			p.Author.Name, p.Author.Bio, p.Author.AvatarURL, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert post %s: %w", p.ID, err)
		}
	}
	return nil
}

// UpdatePost rewrites a post's mutable fields and returns the stored row.
// The id and created_at assigned at creation never change.
func (s *PostgresStore) UpdatePost(ctx context.Context, p model.BlogPost) (model.BlogPost, error) {
	sources, err := json.Marshal(p.Sources)
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("encode sources for %s: %w", p.ID, err)
	}
	row := s.db.QueryRow(ctx,
		`UPDATE posts SET topic=$2, title=$3, summary=$4, content=$5, image_url=$6,
		   image_description=$7, youtube_video_id=$8, sources=$9,
		   author_name=$10, author_bio=$11, author_avatar_url=$12
		 WHERE id=$1 RETURNING `+postColumns,
		p.ID, p.Topic, p.Title, p.Summary, p.Content,
		p.ImageURL, p.ImageDescription, p.YouTubeVideoID, sources,
		p.Author.Name, p.Author.Bio, p.Author.AvatarURL)
	out, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BlogPost{}, ErrNotFound
	}
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("update post: %w", err)
	}
	return out, nil
}

// DeletePost removes a post by id. Deleting a missing id is not an error.
func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

const commentColumns = `id, post_id, author, text, timestamp, status, created_at`

func scanComment(row pgx.Row) (model.Comment, error) {
	var c model.Comment
	var status string
	err := row.Scan(&c.ID, &c.PostID, &c.Author, &c.Text, &c.Timestamp, &status, &c.CreatedAt)
	c.Status = model.CommentStatus(status)
	return c, err
}

// ListCommentsForPost returns a post's comments, oldest first.
func (s *PostgresStore) ListCommentsForPost(ctx context.Context, postID string) ([]model.Comment, error) {
	return s.listComments(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`, postID)
}

// ListAllComments returns every comment regardless of status, newest first.
func (s *PostgresStore) ListAllComments(ctx context.Context) ([]model.Comment, error) {
	return s.listComments(ctx,
		`SELECT `+commentColumns+` FROM comments ORDER BY created_at DESC`)
}

func (s *PostgresStore) listComments(ctx context.Context, sql string, args ...any) ([]model.Comment, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()
	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return comments, nil
}

// InsertComment stores a new comment and returns it.
func (s *PostgresStore) InsertComment(ctx context.Context, c model.Comment) (model.Comment, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO comments (`+commentColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.PostID, c.Author, c.Text, c.Timestamp, c.Status, c.CreatedAt)
	if err != nil {
		return model.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// GetComment returns a single comment, or ErrNotFound.
func (s *PostgresStore) GetComment(ctx context.Context, id string) (model.Comment, error) {
	c, err := scanComment(s.db.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Comment{}, ErrNotFound
	}
	if err != nil {
		return model.Comment{}, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// UpdateCommentStatus sets a comment's moderation status and returns the
// updated row, or ErrNotFound.
func (s *PostgresStore) UpdateCommentStatus(ctx context.Context, id string, status model.CommentStatus) (model.Comment, error) {
	c, err := scanComment(s.db.QueryRow(ctx,
		`UPDATE comments SET status = $2 WHERE id = $1 RETURNING `+commentColumns,
		id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Comment{}, ErrNotFound
	}
	if err != nil {
		return model.Comment{}, fmt.Errorf("update comment status: %w", err)
	}
	return c, nil
}

// Touch verifies connectivity with a trivial query; used by the ping command.
func (s *PostgresStore) Touch(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var one int
	if err := s.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("touch: %w", err)
	}
	return nil
}
