// Package convert runs the dump conversion loop: it feeds input lines to the
// parser, filters what the parser emits and forwards it to a sink.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Scoopit/mysql2databend/internal/parser"
	"github.com/Scoopit/mysql2databend/internal/sink"
)

// LineReader yields dump lines with their terminator.
type LineReader interface {
	ReadLine() ([]byte, error)
	// Line is the 1-based number of the last line returned.
	Line() int
}

// Config contains configuration for a conversion run
type Config struct {
	Databases              []string
	Tables                 []string
	SkipDatabaseStatements bool
	ProgressInterval       int // Log progress every N lines, 0 disables it
}

// Statistics tracks conversion progress
type Statistics struct {
	StartTime         time.Time
	EndTime           time.Time
	LinesRead         int
	ContextStatements int
	ContentStatements int
	TablesConverted   []string
	StatementsSkipped int
	BytesWritten      int64
}

// Converter is the single-pass conversion loop.
type Converter struct {
	config Config
	sink   sink.Sink
	parser *parser.Parser
	filter *FilterContext
	stats  Statistics
}

// New creates a converter writing to out.
func New(config Config, out sink.Sink) *Converter {
	return &Converter{
		config: config,
		sink:   out,
		parser: parser.New(),
		filter: NewFilterContext(config.Databases, config.Tables),
	}
}

// Run reads lines until EOF, converting and forwarding them. It stops at the
// first error; cancelling ctx stops it between two lines.
func (c *Converter) Run(ctx context.Context, r LineReader) error {
	c.stats.StartTime = time.Now()
	defer func() { c.stats.EndTime = time.Now() }()

	slog.Info("Starting conversion",
		"databases", c.config.Databases,
		"tables", c.config.Tables,
		"skip_database_stmt", c.config.SkipDatabaseStatements)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return &LineError{Line: r.Line(), Err: fmt.Errorf("failed to read dump: %w", err)}
		}
		c.stats.LinesRead++

		if err := c.process(ctx, r.Line(), line); err != nil {
			return err
		}

		if c.config.ProgressInterval > 0 && c.stats.LinesRead%c.config.ProgressInterval == 0 {
			slog.Info("Conversion progress",
				"lines_read", c.stats.LinesRead,
				"tables_converted", len(c.stats.TablesConverted),
				"bytes_written", humanize.Bytes(uint64(c.stats.BytesWritten)))
		}
	}

	if c.parser.Pending() {
		slog.Warn("Dump ended inside a CREATE TABLE statement, dropping it",
			"table", c.parser.Current().Name)
	}

	if err := c.sink.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush sink: %w", err)
	}
	return nil
}

func (c *Converter) process(ctx context.Context, lineNum int, line []byte) error {
	change, err := c.parser.Parse(line)
	if err != nil {
		return &LineError{Line: lineNum, Err: err}
	}
	c.filter.Observe(change)

	if change.Kind != parser.ChangeNone {
		slog.Debug("Context changed",
			"line", lineNum,
			"statement", c.parser.Current().Kind,
			"name", change.Name)
	}

	if stmt := c.parser.EmitContext(); stmt != nil {
		if c.config.SkipDatabaseStatements || !c.filter.DatabaseAllowed() {
			c.stats.StatementsSkipped++
			return nil
		}
		c.stats.ContextStatements++
		if sw, ok := c.sink.(sink.DatabaseSwitcher); ok && change.Kind == parser.ChangeUse {
			if err := sw.UseDatabase(ctx, change.Name); err != nil {
				return &SinkError{Statement: stmt, Err: err}
			}
			return nil
		}
		return c.write(ctx, stmt)
	}

	if stmt := c.parser.EmitContent(); stmt != nil {
		if !c.filter.TableAllowed() {
			c.stats.StatementsSkipped++
			return nil
		}
		current := c.parser.Current()
		if current.Kind == parser.KindCreateTableClosed {
			c.stats.TablesConverted = append(c.stats.TablesConverted, current.Name)
			slog.Debug("Converted table", "table", current.Name, "database", c.filter.CurrentDatabase())
		}
		c.stats.ContentStatements++
		return c.write(ctx, stmt)
	}
	return nil
}

func (c *Converter) write(ctx context.Context, stmt []byte) error {
	n, err := c.sink.Write(ctx, stmt)
	c.stats.BytesWritten += int64(n)
	if err != nil {
		return &SinkError{Statement: stmt, Err: err}
	}
	return nil
}

// GetStatistics returns the statistics of the last run.
func (c *Converter) GetStatistics() Statistics {
	return c.stats
}

// LogStatistics logs the final statistics of the last run.
func (c *Converter) LogStatistics() {
	duration := c.stats.EndTime.Sub(c.stats.StartTime)
	slog.Info("Conversion completed",
		"duration", duration,
		"lines_read", c.stats.LinesRead,
		"context_statements", c.stats.ContextStatements,
		"content_statements", c.stats.ContentStatements,
		"tables_converted", len(c.stats.TablesConverted),
		"statements_skipped", c.stats.StatementsSkipped,
		"bytes_written", humanize.Bytes(uint64(c.stats.BytesWritten)))
}
