package store

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/stretchr/testify/require"
)

func TestAppendScopeConditions(t *testing.T) {
	base := "SELECT * FROM c WHERE c.date = @date"
	params := []azcosmos.QueryParameter{{Name: "@date", Value: "2025-06-10"}}

	query, params := appendScopeConditions(base, params, "", "acme", "core")
	require.Equal(t, base+" AND c.organization = @organization AND c.team = @team", query)
	require.Equal(t, []azcosmos.QueryParameter{
		{Name: "@date", Value: "2025-06-10"},
		{Name: "@organization", Value: "acme"},
		{Name: "@team", Value: "core"},
	}, params)

	query, params = appendScopeConditions(base, nil, "", "", "")
	require.Equal(t, base, query)
	require.Empty(t, params)
}
