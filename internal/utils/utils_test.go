package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return ctx
}

func TestNormalizeTags(t *testing.T) {
	tags, err := NormalizeTags([]string{"Board Games", "board_games", " RPG ", "", "euro-game"})
	require.NoError(t, err)
	assert.Equal(t, []string{"board-games", "rpg", "euro-game"}, tags)

	_, err = NormalizeTags([]string{"d&d"})
	assert.Error(t, err)

	_, err = NormalizeTags([]string{"a-very-long-tag-name-that-goes-past-the-limit"})
	assert.Error(t, err)
}

func TestIsValidTag(t *testing.T) {
	assert.True(t, IsValidTag("catan"))
	assert.True(t, IsValidTag("7-wonders"))
	assert.False(t, IsValidTag("Catan"))
	assert.False(t, IsValidTag(""))
	assert.False(t, IsValidTag("two words"))
}

func TestParsePagination(t *testing.T) {
	p := ParsePagination(testContext("/events?page=3&per_page=500&sort_by=likes&order=ASC"), "date", "desc")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, "likes", p.SortBy)
	assert.Equal(t, "asc", p.SortOrder)
	assert.Equal(t, 200, p.Offset())

	p = ParsePagination(testContext("/events?page=-1&limit=abc&order=sideways"), "date", "desc")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, "date", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"date": "event_date", "created_at": "created_at"}

	assert.Equal(t, "event_date ASC", Pagination{SortBy: "date", SortOrder: "asc"}.OrderClause(allowed, "date"))
	assert.Equal(t, "event_date DESC", Pagination{SortBy: "id; DROP TABLE", SortOrder: "desc"}.OrderClause(allowed, "date"))
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(45, Pagination{Page: 2, PerPage: 20})
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = BuildMeta(0, Pagination{Page: 1, PerPage: 20})
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
}

func TestGetEventID(t *testing.T) {
	ctx := testContext("/")
	ctx.Params = gin.Params{{Key: "event_id", Value: "12"}}
	id, err := GetEventID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	ctx.Params = gin.Params{{Key: "event_id", Value: "abc"}}
	_, err = GetEventID(ctx)
	assert.EqualError(t, err, "Invalid Event ID")

	ctx.Params = gin.Params{}
	_, err = GetEventID(ctx)
	assert.EqualError(t, err, "Event ID not found")
}
