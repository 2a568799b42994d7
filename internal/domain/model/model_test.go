package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/gitshelf/internal/domain/model"
)

func TestBookmarks_ContainsIsCaseInsensitive(t *testing.T) {
	bs := model.Bookmarks{{Name: "facebook/react"}}

	assert.True(t, bs.Contains("facebook/react"))
	assert.True(t, bs.Contains("Facebook/React"))
	assert.False(t, bs.Contains("facebook/jest"))
}

func TestBookmarks_WithoutRemovesExactMatchesOnly(t *testing.T) {
	bs := model.Bookmarks{
		{Name: "golang/go"},
		{Name: "facebook/react"},
		{Name: "golang/go"},
		{Name: "Golang/Go"},
	}

	got := bs.Without("golang/go")

	assert.Equal(t, model.Bookmarks{{Name: "facebook/react"}, {Name: "Golang/Go"}}, got)
	assert.Len(t, bs, 4, "original collection must be untouched")
	assert.Equal(t, got, got.Without("golang/go"), "removal is idempotent")
}

func TestParseIssueState(t *testing.T) {
	tests := []struct {
		in      string
		want    model.IssueState
		wantErr bool
	}{
		{in: "", want: model.IssueStateOpen},
		{in: "all", want: model.IssueStateAll},
		{in: "open", want: model.IssueStateOpen},
		{in: "closed", want: model.IssueStateClosed},
		{in: "merged", wantErr: true},
		{in: "OPEN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := model.ParseIssueState(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIssueQuery_Pagination(t *testing.T) {
	q := model.NewIssueQuery(model.IssueStateOpen, 0)
	assert.Equal(t, 1, q.Page, "page is clamped to 1")
	assert.Equal(t, model.IssuesPerPage, q.PerPage)
	assert.False(t, q.HasPrev())
	assert.Equal(t, 1, q.Prev().Page)

	q = q.Next().Next()
	assert.Equal(t, 3, q.Page)
	assert.True(t, q.HasPrev())
	assert.Equal(t, 2, q.Prev().Page)
}

func TestIssueQuery_WithStateKeepsPage(t *testing.T) {
	q := model.NewIssueQuery(model.IssueStateOpen, 4).WithState(model.IssueStateClosed)

	assert.Equal(t, model.IssueStateClosed, q.State)
	assert.Equal(t, 4, q.Page)
}

func TestDetailPath(t *testing.T) {
	assert.Equal(t, "/repositorio/facebook%2Freact", model.DetailPath("facebook/react"))
	assert.Equal(t, "/repositorio/a%20b%2Fc", model.DetailPath("a b/c"))
}
