package database

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/iganosaigo/saigo.info-backend/constants"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// PostRecord is a post row joined with its writer, payload fields
// flattened. List views leave Content empty and truncate Description.
type PostRecord struct {
	ID          uint
	PostID      string
	Writer      string
	WriterID    uint
	Title       string
	Description string
	Content     string
	Tags        []string
	Created     string
	Modified    *string
	Estimated   int
}

type postRow struct {
	ID        uint
	PostID    string
	AccountID uint
	Payload   datatypes.JSON
	FullName  string
}

func (s *Store) postSelect() *gorm.DB {
	return s.db.Table("posts").
		Select("posts.id, posts.post_id, posts.account_id, posts.payload, " +
			"accounts.full_name").
		Joins("JOIN accounts ON accounts.id = posts.account_id")
}

// createdExpr is the SQL path into the payload's created field, per
// dialect. Only used for ordering.
func (s *Store) createdExpr() string {
	if s.db.Dialector.Name() == "postgres" {
		return "payload->>'created'"
	}
	return "json_extract(payload, '$.created')"
}

// filterByTags narrows a query to posts whose payload tag list contains all
// of the given tags.
func (s *Store) filterByTags(q *gorm.DB, tags []string) *gorm.DB {
	if len(tags) == 0 {
		return q
	}
	if s.db.Dialector.Name() == "postgres" {
		encoded, _ := json.Marshal(tags)
		return q.Where("payload->'tags' @> ?", string(encoded))
	}
	for _, tag := range tags {
		q = q.Where(
			"EXISTS (SELECT 1 FROM json_each(payload, '$.tags') WHERE value = ?)",
			tag,
		)
	}
	return q
}

// CountPosts counts posts, optionally restricted to those carrying all of
// the given tags.
func (s *Store) CountPosts(tags []string) (int64, error) {
	var count int64
	q := s.filterByTags(s.db.Model(&Post{}), tags)
	if result := q.Count(&count); result.Error != nil {
		return 0, errors.Wrap(result.Error, "counting posts")
	}
	return count, nil
}

// ListPosts pages through posts joined with their writer's display name,
// sorted by the payload's creation timestamp. Descriptions are truncated
// for the list view and content is omitted entirely.
func (s *Store) ListPosts(offset, limit int, order SortOrder, tags []string) ([]PostRecord, error) {
	dir := "ASC"
	if order == OrderDesc {
		dir = "DESC"
	}

	q := s.filterByTags(s.postSelect(), tags).
		Order(s.createdExpr() + " " + dir).
		Offset(offset).
		Limit(limit)

	var rows []postRow
	if result := q.Scan(&rows); result.Error != nil {
		return nil, errors.Wrap(result.Error, "listing posts")
	}

	records := make([]PostRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		record.Content = ""
		// Character-based truncation, not bytes: slicing the string
		// directly could split a multi-byte rune at the boundary.
		if runes := []rune(record.Description); len(runes) > constants.DESCRIPTION_PREVIEW_LENGTH {
			record.Description = string(runes[:constants.DESCRIPTION_PREVIEW_LENGTH])
		}
		records = append(records, *record)
	}
	return records, nil
}

// GetPost fetches a single post by its public identifier. Returns
// (nil, nil) when absent.
func (s *Store) GetPost(postID string) (*PostRecord, error) {
	var row postRow
	result := s.postSelect().Where("posts.post_id = ?", postID).Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "fetching post")
	}
	return row.toRecord()
}

func (r postRow) toRecord() (*PostRecord, error) {
	var payload PostPayload
	if err := json.Unmarshal(r.Payload, &payload); err != nil {
		return nil, errors.Wrap(err, "decoding post payload")
	}
	tags := payload.Tags
	if tags == nil {
		tags = []string{}
	}
	return &PostRecord{
		ID:          r.ID,
		PostID:      r.PostID,
		Writer:      r.FullName,
		WriterID:    r.AccountID,
		Title:       payload.Title,
		Description: payload.Description,
		Content:     payload.Content,
		Tags:        tags,
		Created:     payload.Created,
		Modified:    payload.Modified,
		Estimated:   payload.Estimated,
	}, nil
}

type PostParams struct {
	Title       string
	Description string
	Content     string
	Tags        []string
	Estimated   int
}

// CreatePost stores a new post under the given public identifier with the
// creation timestamp set to the current UTC time.
func (s *Store) CreatePost(accountID uint, postID string, p PostParams) (string, error) {
	payload := PostPayload{
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		Tags:        p.Tags,
		Created:     postDate(),
		Estimated:   p.Estimated,
	}
	if payload.Tags == nil {
		payload.Tags = []string{}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encoding post payload")
	}

	post := Post{
		AccountID: accountID,
		PostID:    postID,
		Payload:   datatypes.JSON(encoded),
	}
	if result := s.db.Create(&post); result.Error != nil {
		return "", errors.Wrap(result.Error, "creating post")
	}
	return post.PostID, nil
}

// UpdatePost merges the new fields into the stored payload, preserving the
// creation timestamp and refreshing the modification one. Read-then-write
// without locking: concurrent updates to the same post race.
func (s *Store) UpdatePost(postID string, p PostParams) (string, error) {
	var post Post
	result := s.db.Where("post_id = ?", postID).Take(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", errors.Wrap(result.Error, "fetching post for update")
	}

	var payload PostPayload
	if err := json.Unmarshal(post.Payload, &payload); err != nil {
		return "", errors.Wrap(err, "decoding post payload")
	}

	modified := postDate()
	payload.Title = p.Title
	payload.Description = p.Description
	payload.Content = p.Content
	payload.Tags = p.Tags
	payload.Estimated = p.Estimated
	payload.Modified = &modified
	if payload.Tags == nil {
		payload.Tags = []string{}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encoding post payload")
	}

	result = s.db.Model(&Post{}).Where("post_id = ?", postID).
		Update("payload", datatypes.JSON(encoded))
	if result.Error != nil {
		return "", errors.Wrap(result.Error, "updating post")
	}
	return postID, nil
}

func (s *Store) DeletePost(postID string) error {
	result := s.db.Where("post_id = ?", postID).Delete(&Post{})
	return errors.Wrap(result.Error, "deleting post")
}

func postDate() string {
	return time.Now().UTC().Format(constants.POST_TIME_LAYOUT)
}
