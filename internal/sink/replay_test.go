package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type memorySource struct {
	entries []Entry
	calls   int
	err     error
}

// EntriesAfter mimics ZRANGEBYSCORE with an exclusive minimum and LIMIT over
// entries kept in score order.
func (m *memorySource) EntriesAfter(ctx context.Context, seq, offset, count int64) ([]Entry, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []Entry
	for _, e := range m.entries {
		if e.Seq <= seq {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		if int64(len(out)) == count {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

func TestReplay(t *testing.T) {
	src := &memorySource{entries: []Entry{
		{Seq: 1, SQL: "CREATE DATABASE IF NOT EXISTS `shop`;"},
		{Seq: 2, Database: "shop", SQL: "CREATE TABLE `t` (\n  `a` int NULL\n);"},
		{Seq: 3, Database: "shop", SQL: "INSERT INTO `t` VALUES (1);"},
		{Seq: 4, Database: "audit", SQL: "INSERT INTO `e` VALUES (2);"},
	}}

	var buf bytes.Buffer
	out := NewConsole(&buf)
	n, err := Replay(context.Background(), src, out, 1)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if err := out.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if n != 3 {
		t.Errorf("Replay() = %d, want 3", n)
	}
	want := "USE `shop`;\n" +
		"CREATE TABLE `t` (\n  `a` int NULL\n);\n" +
		"INSERT INTO `t` VALUES (1);\n" +
		"USE `audit`;\n" +
		"INSERT INTO `e` VALUES (2);\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestReplay_Pages(t *testing.T) {
	src := &memorySource{}
	for i := int64(1); i <= replayPageSize+5; i++ {
		src.entries = append(src.entries, Entry{Seq: i, SQL: "SELECT 1;"})
	}

	var buf bytes.Buffer
	n, err := Replay(context.Background(), src, NewConsole(&buf), 0)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if n != replayPageSize+5 {
		t.Errorf("Replay() = %d, want %d", n, replayPageSize+5)
	}
	if src.calls != 2 {
		t.Errorf("EntriesAfter called %d times, want 2", src.calls)
	}
}

func TestReplay_PagesSplitDuplicateSequence(t *testing.T) {
	// two runs into one key: 1 alone, then 2..600 twice each, so the first
	// page ends between the two entries scored 501
	src := &memorySource{entries: []Entry{{Seq: 1, SQL: "INSERT INTO `t` VALUES (0);"}}}
	for seq := int64(2); seq <= 600; seq++ {
		for run := 0; run < 2; run++ {
			src.entries = append(src.entries, Entry{
				Seq: seq,
				SQL: fmt.Sprintf("INSERT INTO `t` VALUES (%d);", len(src.entries)),
			})
		}
	}
	if src.entries[replayPageSize-1].Seq != src.entries[replayPageSize].Seq {
		t.Fatalf("fixture does not split a sequence number at the page boundary")
	}

	var buf bytes.Buffer
	out := NewConsole(&buf)
	n, err := Replay(context.Background(), src, out, 0)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if err := out.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}

	if n != len(src.entries) {
		t.Errorf("Replay() = %d, want %d", n, len(src.entries))
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(src.entries) {
		t.Fatalf("output has %d statements, want %d", len(lines), len(src.entries))
	}
	for i, e := range src.entries {
		if lines[i] != e.SQL {
			t.Fatalf("statement %d = %q, want %q", i, lines[i], e.SQL)
		}
	}
}

func TestReplay_SourceError(t *testing.T) {
	src := &memorySource{err: errors.New("connection reset")}
	if _, err := Replay(context.Background(), src, NewConsole(&bytes.Buffer{}), 0); err == nil {
		t.Error("Replay() expected error")
	}
}
