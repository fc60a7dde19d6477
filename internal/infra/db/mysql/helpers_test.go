package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/siren-alert/internal/domain/cases"
)

func TestCaseFilter(t *testing.T) {
	where, args := caseFilter(cases.Query{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = caseFilter(cases.Query{Status: cases.StatusPending, Search: " 100%_붕괴 "})
	assert.Equal(t, " WHERE analysis_status = ? AND (title LIKE ? OR location LIKE ? OR cause LIKE ?)", where)
	assert.Equal(t, []any{"pending", `%100\%\_붕괴%`, `%100\%\_붕괴%`, `%100\%\_붕괴%`}, args)
}

func TestJSONOrNull(t *testing.T) {
	assert.False(t, jsonOrNull(" ").Valid)
	assert.Equal(t, `{"a":1}`, jsonOrNull(`{"a":1}`).String)
	assert.JSONEq(t, `{"raw":"plain text"}`, jsonOrNull("plain text").String)
}

func TestNullHelpers(t *testing.T) {
	assert.Equal(t, "-", stringOrDash("  "))
	assert.False(t, nullString("").Valid)
	assert.Nil(t, timePtr(nullTime(nil)))

	now := time.Now()
	got := timePtr(nullTime(&now))
	if assert.NotNil(t, got) {
		assert.True(t, now.Equal(*got))
	}
}
