package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"global-gist/internal/model"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *PostgresStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresStore(mock)
}

func postRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "topic", "title", "summary", "content", "image_url",
		"image_description", "youtube_video_id", "sources",
		"author_name", "author_bio", "author_avatar_url", "created_at",
	})
}

func TestListPostsByTopicPageSlicing(t *testing.T) {
	mock, store := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+postColumns+` FROM posts WHERE topic = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`)).
		WithArgs("Tourism", 9, 9).
		WillReturnRows(postRows().AddRow(
			"tourism-0-1", "Tourism", "A Title", "sum", "body", "https://img",
			"", "", []byte(`[{"title":"Ref","uri":"https://ref"}]`),
			"GGB", "bio", "https://avatar", now,
		))

	posts, err := store.ListPostsByTopic(context.Background(), "Tourism", 2, 9)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "tourism-0-1", posts[0].ID)
	assert.Equal(t, []model.GroundingSource{{Title: "Ref", URI: "https://ref"}}, posts[0].Sources)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPostByIDNotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+postColumns+` FROM posts WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(postRows())

	_, err := store.GetPostByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPosts(t *testing.T) {
	mock, store := newMockStore(t)
	now := time.Now()
	p := model.BlogPost{
		ID: "custom-1", Topic: "Lifestyle", Title: "T", Summary: "S",
		Content: "C", ImageURL: "https://img", Sources: []model.GroundingSource{},
		Author: model.DefaultAuthor, CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts (`+postColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`)).
		WithArgs(p.ID, p.Topic, p.Title, p.Summary, p.Content,
			p.ImageURL, "", "", []byte(`[]`),
			p.Author.Name, p.Author.Bio, p.Author.AvatarURL, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.InsertPosts(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCommentStatusNotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE comments SET status = $2 WHERE id = $1 RETURNING `+commentColumns)).
		WithArgs("comment-9", model.CommentApproved).
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "author", "text", "timestamp", "status", "created_at"}))

	_, err := store.UpdateCommentStatus(context.Background(), "comment-9", model.CommentApproved)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCommentsForPost(t *testing.T) {
	mock, store := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at ASC`)).
		WithArgs("custom-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "post_id", "author", "text", "timestamp", "status", "created_at"}).
			AddRow("comment-1", "custom-1", "Ada", "nice read", now.UnixMilli(), "approved", now).
			AddRow("comment-2", "custom-1", "Lin", "spam", now.UnixMilli(), "rejected", now))

	comments, err := store.ListCommentsForPost(context.Background(), "custom-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, model.CommentApproved, comments[0].Status)
	assert.Equal(t, model.CommentRejected, comments[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
