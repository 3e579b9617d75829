package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boundsInput struct {
	Name     string   `json:"name" validate:"min=2,max=5"`
	PageSize int      `json:"pageSize" validate:"min=0,max=100"`
	Price    float64  `json:"price" validate:"max=10"`
	Tags     []string `json:"tags" validate:"max=1"`
	Code     string   `json:"code" validate:"omitempty,len=3"`
}

func issueFor(t *testing.T, issues []Issue, path string) string {
	t.Helper()
	for _, is := range issues {
		if is.Path == path {
			return is.Message
		}
	}
	t.Fatalf("no issue for %q in %+v", path, issues)
	return ""
}

func TestIssuesBoundsMessagesFollowFieldKind(t *testing.T) {
	v := New()
	err := v.Struct(boundsInput{
		Name:     "abcdefg",
		PageSize: 500,
		Price:    12.5,
		Tags:     []string{"a", "b"},
		Code:     "ab",
	})
	require.Error(t, err)

	issues := Issues(err)
	assert.Equal(t, "must be at most 5 characters", issueFor(t, issues, "name"))
	assert.Equal(t, "must be at most 100", issueFor(t, issues, "pageSize"))
	assert.Equal(t, "must be at most 10", issueFor(t, issues, "price"))
	assert.Equal(t, "must be at most 1 items", issueFor(t, issues, "tags"))
	assert.Equal(t, "must be exactly 3 characters", issueFor(t, issues, "code"))
}

func TestIssuesNumericMinimum(t *testing.T) {
	type input struct {
		Count int `json:"count" validate:"min=1"`
	}
	issues := Issues(New().Struct(input{Count: 0}))
	require.Len(t, issues, 1)
	assert.Equal(t, "count", issues[0].Path)
	assert.Equal(t, "must be at least 1", issues[0].Message)
	assert.NotContains(t, issues[0].Message, "characters")
}

func TestIssuesNonValidationError(t *testing.T) {
	assert.Nil(t, Issues(nil))
	issues := Issues(assert.AnError)
	require.Len(t, issues, 1)
	assert.Empty(t, issues[0].Path)
}
