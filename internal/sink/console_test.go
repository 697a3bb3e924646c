package sink

import (
	"bytes"
	"context"
	"testing"
)

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out)
	ctx := context.Background()

	stmts := []string{"USE `shop`;\n", "CREATE TABLE `t` (\n  `a` int NULL\n);\n"}
	for _, stmt := range stmts {
		n, err := c.Write(ctx, []byte(stmt))
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n != len(stmt) {
			t.Errorf("Write() = %d, want %d", n, len(stmt))
		}
	}
	if out.Len() != 0 {
		t.Errorf("output written before Flush: %q", out.String())
	}

	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got, want := out.String(), stmts[0]+stmts[1]; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if _, err := c.Write(ctx, []byte("INSERT INTO `t` VALUES (1);\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !bytes.HasSuffix(out.Bytes(), []byte("VALUES (1);\n")) {
		t.Errorf("Close() did not flush: %q", out.String())
	}
}
