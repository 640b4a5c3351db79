package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminDSNFor(t *testing.T) {
	admin, name, ok := adminDSNFor("postgres://u:p@localhost:5432/esports?sslmode=disable")
	require.True(t, ok)
	assert.Equal(t, "esports", name)
	assert.Equal(t, "postgres://u:p@localhost:5432/postgres?sslmode=disable", admin)

	_, _, ok = adminDSNFor("postgres://u:p@localhost:5432/postgres")
	assert.False(t, ok)
}
