package dialect

import (
	"context"
	"database/sql"
	"fmt"
)

// MySQL targets a MySQL or MariaDB server.
type MySQL struct{}

// NewMySQL creates a new MySQL dialect
func NewMySQL() *MySQL {
	return &MySQL{}
}

func (m *MySQL) Name() string {
	return "mysql"
}

func (m *MySQL) DriverName() string {
	return "mysql"
}

func (m *MySQL) DefaultPort() string {
	return "3306"
}

func (m *MySQL) FormatDSN(connStr string) (string, error) {
	return formatDSN(connStr, m.DefaultPort())
}

func (m *MySQL) QuoteIdentifier(name string) string {
	return quoteBacktick(name)
}

func (m *MySQL) UseStatement(database string) string {
	return "USE " + m.QuoteIdentifier(database)
}

// SetupConnection disables foreign key checks so tables and rows can be
// replayed in dump order.
func (m *MySQL) SetupConnection(ctx context.Context, conn *sql.Conn) error {
	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		return fmt.Errorf("failed to disable foreign key checks: %w", err)
	}
	return nil
}
