package dialect

import (
	"context"
	"database/sql"
)

// Databend targets the MySQL-protocol handler of a Databend query node.
type Databend struct{}

// NewDatabend creates a new Databend dialect
func NewDatabend() *Databend {
	return &Databend{}
}

func (d *Databend) Name() string {
	return "databend"
}

func (d *Databend) DriverName() string {
	return "mysql"
}

func (d *Databend) DefaultPort() string {
	return "3307"
}

func (d *Databend) FormatDSN(connStr string) (string, error) {
	return formatDSN(connStr, d.DefaultPort())
}

func (d *Databend) QuoteIdentifier(name string) string {
	return quoteBacktick(name)
}

func (d *Databend) UseStatement(database string) string {
	return "USE " + d.QuoteIdentifier(database)
}

// SetupConnection is a no-op: Databend does not enforce foreign keys.
func (d *Databend) SetupConnection(ctx context.Context, conn *sql.Conn) error {
	return nil
}
