package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQueryNoFilters(t *testing.T) {
	query, args := buildListQuery(ClientFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY created_at DESC")
	assert.Empty(t, args)
}

func TestBuildListQueryAllSentinelEqualsAbsent(t *testing.T) {
	unfiltered, unfilteredArgs := buildListQuery(ClientFilter{})
	sentinel, sentinelArgs := buildListQuery(ClientFilter{Status: "all", Type: "all"})

	assert.Equal(t, unfiltered, sentinel)
	assert.Equal(t, unfilteredArgs, sentinelArgs)
}

func TestBuildListQueryStatusFilter(t *testing.T) {
	query, args := buildListQuery(ClientFilter{Status: "active"})

	assert.Contains(t, query, "WHERE status = $1")
	assert.Equal(t, []any{"active"}, args)
}

func TestBuildListQueryCombinesDimensionsWithAnd(t *testing.T) {
	query, args := buildListQuery(ClientFilter{Status: "prospect", Type: "grower"})

	assert.Contains(t, query, "status = $1 AND client_type = $2")
	assert.Equal(t, []any{"prospect", "grower"}, args)
}

func TestBuildListQuerySearchExpandsToOr(t *testing.T) {
	query, args := buildListQuery(ClientFilter{Search: "jane"})

	assert.Contains(t, query, "(name ILIKE $1 OR email ILIKE $1 OR license_number ILIKE $1)")
	require.Len(t, args, 1)
	assert.Equal(t, "%jane%", args[0])
}

func TestBuildListQueryFullFilter(t *testing.T) {
	query, args := buildListQuery(ClientFilter{Search: "grow", Status: "active", Type: "dispensary"})

	assert.Contains(t, query, "WHERE status = $1 AND client_type = $2 AND (name ILIKE $3 OR email ILIKE $3 OR license_number ILIKE $3)")
	assert.Equal(t, []any{"active", "dispensary", "%grow%"}, args)
	assert.Contains(t, query, "ORDER BY created_at DESC")
}
