package database

import (
	"strings"
	"testing"

	"chat-realtime/internal/config"

	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	req := require.New(t)
	base := config.DatabaseConfig{
		Host: "db", Port: "5432", User: "chat", Password: "pw", DBName: "chat", SSLMode: "disable",
	}

	base.Driver = "postgres"
	req.Equal("host=db user=chat password=pw dbname=chat port=5432 sslmode=disable", DSN(base))

	base.Driver = "mysql"
	req.True(strings.HasPrefix(DSN(base), "chat:pw@tcp(db:5432)/chat?"))
}

func TestNewConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := NewConnection(config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}
