package schema

import (
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/iganosaigo/saigo.info-backend/constants"
)

// CreatePostRequest carries the editable fields of a post. PostID is
// optional; when empty a deterministic one is derived from the title.
type CreatePostRequest struct {
	PostID      string   `json:"post_id" validate:"omitempty,hexadecimal,len=10"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Tags        []string `json:"tags"`
	Estimated   int      `json:"estimated" validate:"gte=0"`
}

// UpdatePostRequest fully replaces the editable fields of a post.
type UpdatePostRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Tags        []string `json:"tags"`
	Estimated   int      `json:"estimated" validate:"gte=0"`
}

// PostResponse is the outward post view: payload fields flattened next to
// the writer's display name. The internal numeric id and the writer's
// account id stay internal. Content is only populated on single-post reads.
type PostResponse struct {
	PostID      string   `json:"post_id"`
	Writer      string   `json:"writer"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content,omitempty"`
	Tags        []string `json:"tags"`
	Created     string   `json:"created"`
	Modified    *string  `json:"modified"`
	Estimated   int      `json:"estimated"`
}

type PageResponse struct {
	CurrentPage  int            `json:"current_page"`
	TotalPages   int            `json:"total_pages"`
	PageSize     int            `json:"page_size"`
	TotalRecords int64          `json:"total_records"`
	FilterTags   []string       `json:"filter_tags"`
	Data         []PostResponse `json:"data"`
}

type CreatePostResponse struct {
	PostID string `json:"post_id"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}

// postIDNamespace anchors the name-based UUIDs the public post identifiers
// are derived from. Changing it would change every derived id.
var postIDNamespace = uuid.NameSpaceURL

// GeneratePostID derives the public post identifier from the title: a
// name-based (SHA-1) UUID truncated to 10 hex characters. The same title
// always yields the same id, so duplicate titles collide unless the caller
// supplies an explicit id.
func GeneratePostID(title string) string {
	id := uuid.NewSHA1(postIDNamespace, []byte(title))
	return hex.EncodeToString(id[:])[:constants.POST_ID_LENGTH]
}
