package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	t.Run("host only", func(t *testing.T) {
		dsn := BuildDSN(DialInfo{Addr: "db.local", DBName: "attachments", User: "u", Pwd: "p"})
		require.Equal(t, "host=db.local user=u password=p dbname=attachments port=5432 sslmode=disable TimeZone=UTC", dsn)
	})

	t.Run("host and port", func(t *testing.T) {
		dsn := BuildDSN(DialInfo{Addr: "127.0.0.1:15432", DBName: "attachments", User: "u", Pwd: "p"})
		require.Contains(t, dsn, "host=127.0.0.1 ")
		require.Contains(t, dsn, " port=15432 ")
	})
}
