package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery(t *testing.T) {
	query, args, err := buildListQuery(ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT slug, name, category, service_grp, active, sort_order FROM repair_services WHERE active = $1 ORDER BY sort_order ASC, name ASC", query)
	assert.Equal(t, []interface{}{true}, args)

	query, args, err = buildListQuery(ListFilter{Category: "phones", Group: "display"})
	require.NoError(t, err)
	assert.Contains(t, query, "category = $2")
	assert.Contains(t, query, "service_grp = $3")
	assert.Equal(t, []interface{}{true, "phones", "display"}, args)
}

func TestBuildGetQuery(t *testing.T) {
	query, args, err := buildGetQuery("screen-repair")
	require.NoError(t, err)
	assert.Contains(t, query, "FROM repair_services WHERE")
	assert.ElementsMatch(t, []interface{}{true, "screen-repair"}, args)
}
