package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/iganosaigo/saigo.info-backend/apierror"
	"github.com/iganosaigo/saigo.info-backend/constants"
	"github.com/iganosaigo/saigo.info-backend/database"
	"github.com/iganosaigo/saigo.info-backend/schema"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, schema.TagsResponse{Tags: tags})
}

type listPostsQuery struct {
	page     int
	pageSize int
	order    database.SortOrder
	tags     []string
}

// parseListPostsQuery validates the pagination query params: page >= 1,
// page_size within 1..100, sort restricted to "created", order asc or desc
// (ascending by default), tags comma-separated.
func parseListPostsQuery(r *http.Request) (listPostsQuery, error) {
	q := listPostsQuery{
		page:     1,
		pageSize: constants.DEFAULT_PAGE_SIZE,
		order:    database.OrderAsc,
	}
	values := r.URL.Query()

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, apierror.Validation("page must be a positive integer")
		}
		q.page = page
	}

	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > constants.MAX_PAGE_SIZE {
			return q, apierror.Validation("page_size must be between 1 and 100")
		}
		q.pageSize = size
	}

	if raw := values.Get("sort"); raw != "" && raw != "created" {
		return q, apierror.Validation("sort must be created")
	}

	switch values.Get("order") {
	case "":
	case "asc":
		q.order = database.OrderAsc
	case "desc":
		q.order = database.OrderDesc
	default:
		return q, apierror.Validation("order must be asc or desc")
	}

	if raw := values.Get("tags"); raw != "" {
		q.tags = strings.Split(raw, ",")
	}

	return q, nil
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q, err := parseListPostsQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	totalRecords, err := s.store.CountPosts(q.tags)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if totalRecords == 0 {
		s.writeError(w, apierror.ErrNotFound)
		return
	}

	totalPages := int(math.Ceil(float64(totalRecords) / float64(q.pageSize)))
	if q.page > totalPages {
		s.writeError(w, apierror.ErrPageBadRequest)
		return
	}

	offset := (q.page - 1) * q.pageSize
	records, err := s.store.ListPosts(offset, q.pageSize, q.order, q.tags)
	if err != nil {
		s.writeError(w, err)
		return
	}

	filterTags := q.tags
	if filterTags == nil {
		filterTags = []string{}
	}

	data := make([]schema.PostResponse, 0, len(records))
	for _, record := range records {
		data = append(data, postResponse(record))
	}

	writeJSON(w, http.StatusOK, schema.PageResponse{
		CurrentPage:  q.page,
		TotalPages:   totalPages,
		PageSize:     q.pageSize,
		TotalRecords: totalRecords,
		FilterTags:   filterTags,
		Data:         data,
	})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	post, err := s.store.GetPost(postID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if post == nil {
		s.writeError(w, apierror.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, postResponse(*post))
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var body schema.CreatePostRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	postID := body.PostID
	if postID == "" {
		postID = schema.GeneratePostID(body.Title)
	}

	user := currentUser(r)
	created, err := s.store.CreatePost(user.ID, postID, database.PostParams{
		Title:       body.Title,
		Description: body.Description,
		Content:     body.Content,
		Tags:        body.Tags,
		Estimated:   body.Estimated,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if len(body.Tags) > 0 {
		if err := s.store.AddTags(body.Tags); err != nil {
			s.writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, schema.CreatePostResponse{PostID: created})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	var body schema.UpdatePostRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := s.store.UpdatePost(postID, database.PostParams{
		Title:       body.Title,
		Description: body.Description,
		Content:     body.Content,
		Tags:        body.Tags,
		Estimated:   body.Estimated,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.writeError(w, apierror.ErrNotFound)
			return
		}
		s.writeError(w, err)
		return
	}

	if len(body.Tags) > 0 {
		if err := s.store.AddTags(body.Tags); err != nil {
			s.writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, schema.CreatePostResponse{PostID: updated})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	if err := s.store.DeletePost(postID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func postResponse(record database.PostRecord) schema.PostResponse {
	return schema.PostResponse{
		PostID:      record.PostID,
		Writer:      record.Writer,
		Title:       record.Title,
		Description: record.Description,
		Content:     record.Content,
		Tags:        record.Tags,
		Created:     record.Created,
		Modified:    record.Modified,
		Estimated:   record.Estimated,
	}
}
