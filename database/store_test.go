package database

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iganosaigo/saigo.info-backend/schema"
	"github.com/iganosaigo/saigo.info-backend/security"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	// Named per-test memory database, shared across the pool's connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() { Close(db) })
	return NewStore(db)
}

func createTestUser(t *testing.T, s *Store, email string, roleID int16) *User {
	t.Helper()
	user, err := s.CreateUser(CreateUserParams{
		Email:    email,
		FullName: "Test User",
		RoleID:   roleID,
		Password: "test-password",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func createTestPost(t *testing.T, s *Store, accountID uint, title string, tags []string) string {
	t.Helper()
	postID, err := s.CreatePost(accountID, schema.GeneratePostID(title), PostParams{
		Title:       title,
		Description: "description of " + title,
		Content:     "content of " + title,
		Tags:        tags,
		Estimated:   3,
	})
	require.NoError(t, err)
	return postID
}

// insertPostAt plants a post row with an explicit creation timestamp,
// bypassing CreatePost's current-time stamping.
func insertPostAt(t *testing.T, s *Store, accountID uint, title, created string) {
	t.Helper()
	payload, err := json.Marshal(PostPayload{
		Title:       title,
		Description: "description of " + title,
		Content:     "content of " + title,
		Tags:        []string{},
		Created:     created,
		Estimated:   1,
	})
	require.NoError(t, err)
	post := Post{
		AccountID: accountID,
		PostID:    schema.GeneratePostID(title),
		Payload:   datatypes.JSON(payload),
	}
	require.NoError(t, s.db.Create(&post).Error)
}

func TestRolesSeeded(t *testing.T) {
	s := newTestStore(t)

	adminID, err := s.RoleIDByName("admin")
	require.NoError(t, err)
	assert.Equal(t, int16(1), adminID)

	userID, err := s.RoleIDByName("user")
	require.NoError(t, err)
	assert.Equal(t, int16(2), userID)

	unknownID, err := s.RoleIDByName("superuser")
	require.NoError(t, err)
	assert.Equal(t, int16(0), unknownID)
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)

	created := createTestUser(t, s, "admin@x.com", 1)
	assert.Equal(t, "admin@x.com", created.Email)
	assert.Equal(t, "admin", created.RoleName)
	assert.NotEqual(t, "test-password", created.HashedPassword)
	assert.True(t, security.VerifyPassword("test-password", created.HashedPassword))

	byID, err := s.GetUser(ByID(created.ID))
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, created.Email, byID.Email)

	missing, err := s.GetUser(ByEmail("nobody@x.com"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateUserRejectsSuppliedHash(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(CreateUserParams{
		Email:        "user@x.com",
		FullName:     "Test User",
		RoleID:       2,
		PasswordHash: "$2a$10$something",
	})
	assert.Error(t, err)
}

func TestEmailExists(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "admin@x.com", 1)

	exists, err := s.EmailExists("admin@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.EmailExists("other@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListUsersOrderedByID(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "admin@x.com", 1)
	createTestUser(t, s, "user@x.com", 2)

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin@x.com", users[0].Email)
	assert.Equal(t, "user@x.com", users[1].Email)
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "user@x.com", 2)
	oldHash := user.HashedPassword

	updated, err := s.UpdateUser(user.ID, UpdateUserParams{
		Email:    "renamed@x.com",
		FullName: "Renamed User",
		Disabled: true,
		RoleID:   1,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "renamed@x.com", updated.Email)
	assert.Equal(t, "Renamed User", updated.FullName)
	assert.True(t, updated.Disabled)
	assert.Equal(t, "admin", updated.RoleName)
	// Password untouched when not supplied.
	assert.Equal(t, oldHash, updated.HashedPassword)

	updated, err = s.UpdateUser(user.ID, UpdateUserParams{
		Email:    "renamed@x.com",
		FullName: "Renamed User",
		RoleID:   1,
		Password: "fresh-password",
	})
	require.NoError(t, err)
	assert.True(t, security.VerifyPassword("fresh-password", updated.HashedPassword))
}

func TestDisableAndChangePassword(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "user@x.com", 2)

	require.NoError(t, s.SetDisabled(user.ID, true))
	got, err := s.GetUser(ByID(user.ID))
	require.NoError(t, err)
	assert.True(t, got.Disabled)

	hash, err := security.HashPassword("brand-new")
	require.NoError(t, err)
	require.NoError(t, s.ChangePassword(user.ID, hash))
	got, err = s.GetUser(ByID(user.ID))
	require.NoError(t, err)
	assert.True(t, security.VerifyPassword("brand-new", got.HashedPassword))
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	user := createTestUser(t, s, "user@x.com", 2)

	require.NoError(t, s.DeleteUser(user.ID))
	got, err := s.GetUser(ByID(user.ID))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateAndGetPost(t *testing.T) {
	s := newTestStore(t)
	admin := createTestUser(t, s, "admin@x.com", 1)

	postID := createTestPost(t, s, admin.ID, "Hello", []string{"a", "b"})
	assert.Len(t, postID, 10)

	post, err := s.GetPost(postID)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "content of Hello", post.Content)
	assert.Equal(t, []string{"a", "b"}, post.Tags)
	assert.Equal(t, "Test User", post.Writer)
	assert.Equal(t, admin.ID, post.WriterID)
	assert.NotEmpty(t, post.Created)
	assert.Nil(t, post.Modified)

	missing, err := s.GetPost("ffffffffff")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCountAndFilterPostsByTags(t *testing.T) {
	s := newTestStore(t)
	admin := createTestUser(t, s, "admin@x.com", 1)

	createTestPost(t, s, admin.ID, "First", []string{"go", "web"})
	createTestPost(t, s, admin.ID, "Second", []string{"go"})
	createTestPost(t, s, admin.ID, "Third", []string{"db"})

	total, err := s.CountPosts(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	goCount, err := s.CountPosts([]string{"go"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, goCount)

	// All given tags must be present.
	bothCount, err := s.CountPosts([]string{"go", "web"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, bothCount)

	noneCount, err := s.CountPosts([]string{"missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, noneCount)

	filtered, err := s.ListPosts(0, 10, OrderAsc, []string{"go"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, record := range filtered {
		assert.Contains(t, record.Tags, "go")
	}
}

func TestListPostsPaginationAndShape(t *testing.T) {
	s := newTestStore(t)
	admin := createTestUser(t, s, "admin@x.com", 1)

	for i := 0; i < 5; i++ {
		createTestPost(t, s, admin.ID, fmt.Sprintf("Post %d", i), nil)
	}

	firstPage, err := s.ListPosts(0, 2, OrderAsc, nil)
	require.NoError(t, err)
	assert.Len(t, firstPage, 2)

	lastPage, err := s.ListPosts(4, 2, OrderAsc, nil)
	require.NoError(t, err)
	assert.Len(t, lastPage, 1)

	// List rows never include the full content.
	assert.Empty(t, firstPage[0].Content)
	assert.NotEmpty(t, firstPage[0].Title)
	assert.Equal(t, "Test User", firstPage[0].Writer)
}

func TestListPostsOrderByCreated(t *testing.T) {
	s := newTestStore(t)
	admin := createTestUser(t, s, "admin@x.com", 1)

	// Inserted out of chronological order on purpose.
	insertPostAt(t, s, admin.ID, "Middle", "2024-01-02 10:00:00")
	insertPostAt(t, s, admin.ID, "Newest", "2024-01-03 10:00:00")
	insertPostAt(t, s, admin.ID, "Oldest", "2024-01-01 10:00:00")

	titles := func(records []PostRecord) []string {
		out := make([]string, 0, len(records))
		for _, record := range records {
			out = append(out, record.Title)
		}
		return out
	}

	asc, err := s.ListPosts(0, 10, OrderAsc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oldest", "Middle", "Newest"}, titles(asc))

	desc, err := s.ListPosts(0, 10, OrderDesc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Newest", "Middle", "Oldest"}, titles(desc))
}

func TestListPostsDescriptionTruncatedOnRuneBoundary(t *testing.T) {
	s := newTestStore(t)
	admin := createTestUser(t, s, "admin@x.com", 1)

	// 300 two-byte characters: byte-based slicing would cut one in half.
	long := strings.Repeat("é", 300)
	_, err := s.CreatePost(admin.ID, schema.GeneratePostID("Long"), PostParams{
		Title:       "Long",
		Description: long,
		Content:     "content",
		Estimated:   1,
	})
	require.NoError(t, err)

	records, err := s.ListPosts(0, 1, OrderAsc, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	preview := records[0].Description
	assert.Equal(t, strings.Repeat("é", 250), preview)
	assert.True(t, utf8.ValidString(preview))

	// Single-post reads keep the full description.
	post, err := s.GetPost(schema.GeneratePostID("Long"))
	require.NoError(t, err)
	assert.Equal(t, long, post.Description)
}

func TestUpdatePostMergesPayload(t *testing.T) {
	s := newTestStore(t)
	admin := createTestUser(t, s, "admin@x.com", 1)
	postID := createTestPost(t, s, admin.ID, "Hello", []string{"a"})

	before, err := s.GetPost(postID)
	require.NoError(t, err)

	_, err = s.UpdatePost(postID, PostParams{
		Title:       "Hello Again",
		Description: "new description",
		Content:     "new content",
		Tags:        []string{"a", "c"},
		Estimated:   7,
	})
	require.NoError(t, err)

	after, err := s.GetPost(postID)
	require.NoError(t, err)
	assert.Equal(t, "Hello Again", after.Title)
	assert.Equal(t, []string{"a", "c"}, after.Tags)
	assert.Equal(t, 7, after.Estimated)
	// Creation timestamp survives the merge, modification one appears.
	assert.Equal(t, before.Created, after.Created)
	require.NotNil(t, after.Modified)
}

func TestUpdateMissingPost(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdatePost("ffffffffff", PostParams{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	s := newTestStore(t)
	admin := createTestUser(t, s, "admin@x.com", 1)
	postID := createTestPost(t, s, admin.ID, "Hello", nil)

	require.NoError(t, s.DeletePost(postID))
	got, err := s.GetPost(postID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent post is not an error.
	require.NoError(t, s.DeletePost(postID))
}

func TestTagsUpsert(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddTags([]string{"go", "web"}))
	require.NoError(t, s.AddTags([]string{"web", "db"}))
	require.NoError(t, s.AddTags(nil))

	tags, err := s.ListTags()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "web", "db"}, tags)
}
