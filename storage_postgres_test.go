package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPostgresConfig_Defaults(t *testing.T) {
	config := DefaultPostgresConfig()
	assert.Equal(t, postgresDefaultMaxOpenConns, config.MaxOpenConns)
	assert.Equal(t, postgresDefaultMaxIdleConns, config.MaxIdleConns)
	assert.Equal(t, postgresDefaultConnMaxLifetime, config.ConnMaxLifetime)
	assert.Equal(t, postgresDefaultQueryTimeout, config.QueryTimeout)
	assert.Equal(t, postgresDefaultTableName, config.TableName)
}

func TestNewPostgresDefinitionStore_RejectsEmptyConnectionString(t *testing.T) {
	_, err := NewPostgresDefinitionStore(PostgresConfig{})
	assert.Error(t, err)
}

func TestPostgresStorageDriverRegistered(t *testing.T) {
	assert.Contains(t, ListStorageDrivers(), StorageDriverNamePostgres)
}
