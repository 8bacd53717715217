package schema

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePostIDDeterministic(t *testing.T) {
	first := GeneratePostID("Hello")
	second := GeneratePostID("Hello")

	// Same title, same id. Documented behavior: callers that need unique
	// ids must vary titles or supply their own.
	assert.Equal(t, first, second)
}

func TestGeneratePostIDShape(t *testing.T) {
	id := GeneratePostID("Some Post Title")
	assert.Len(t, id, 10)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{10}$`), id)
}

func TestGeneratePostIDVariesWithTitle(t *testing.T) {
	assert.NotEqual(t, GeneratePostID("Hello"), GeneratePostID("Hello!"))
}

func TestValidateCreateUserRequest(t *testing.T) {
	ok := CreateUserRequest{
		Email:    "user@example.com",
		Password: "secret",
		FullName: "Some User",
		RoleName: "user",
	}
	assert.NoError(t, Validate(ok))

	shortPassword := ok
	shortPassword.Password = "abcd"
	assert.Error(t, Validate(shortPassword))

	badEmail := ok
	badEmail.Email = "not-an-email"
	assert.Error(t, Validate(badEmail))

	shortName := ok
	shortName.FullName = "abc"
	assert.Error(t, Validate(shortName))
}

func TestValidateUpdateUserPasswordOptional(t *testing.T) {
	body := UpdateUserRequest{
		Email:    "user@example.com",
		FullName: "Some User",
		RoleName: "user",
	}
	assert.NoError(t, Validate(body))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "admin@x.com", NormalizeEmail(" Admin@X.COM "))
}
