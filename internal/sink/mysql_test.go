package sink

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Scoopit/mysql2databend/pkg/dialect"
)

type fakeConn struct {
	queries []string
	failOn  string
	closed  bool
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.failOn != "" && query == c.failOn {
		return nil, errors.New("Error 1064: syntax error")
	}
	c.queries = append(c.queries, query)
	return driverResult(1), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, nil }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestMySQL_Write(t *testing.T) {
	conn := &fakeConn{}
	m := newMySQL(conn, dialect.NewDatabend())
	ctx := context.Background()

	require.NoError(t, m.UseDatabase(ctx, "shop"))
	n, err := m.Write(ctx, []byte("CREATE TABLE `t` (\n  `a` int NULL\n);\n"))
	require.NoError(t, err)
	require.Equal(t, len("CREATE TABLE `t` (\n  `a` int NULL\n);\n"), n)
	_, err = m.Write(ctx, []byte("\n"))
	require.NoError(t, err)

	require.Equal(t, []string{"USE `shop`", "CREATE TABLE `t` (\n  `a` int NULL\n);"}, conn.queries)
	require.Equal(t, "shop", m.Database())

	require.NoError(t, m.Close())
	require.True(t, conn.closed)
}

func TestMySQL_Errors(t *testing.T) {
	t.Run("rejected statement", func(t *testing.T) {
		conn := &fakeConn{failOn: "INSERT INTO `t` VALUES (1);"}
		m := newMySQL(conn, dialect.NewMySQL())
		require.NoError(t, m.UseDatabase(context.Background(), "shop"))

		n, err := m.Write(context.Background(), []byte("INSERT INTO `t` VALUES (1);\n"))
		require.Error(t, err)
		require.Zero(t, n)
		require.Contains(t, err.Error(), `database "shop"`)
	})

	t.Run("use failure keeps previous database", func(t *testing.T) {
		conn := &fakeConn{failOn: "USE `missing`"}
		m := newMySQL(conn, dialect.NewDatabend())
		require.NoError(t, m.UseDatabase(context.Background(), "shop"))
		require.Error(t, m.UseDatabase(context.Background(), "missing"))
		require.Equal(t, "shop", m.Database())
	})
}

func TestOpenMySQL_InvalidURL(t *testing.T) {
	_, err := OpenMySQL(context.Background(), "postgres://localhost/db", 1)
	require.Error(t, err)

	_, err = OpenMySQL(context.Background(), "databend://root@localhost/db?parseTime=maybe", 1)
	require.Error(t, err)
}
