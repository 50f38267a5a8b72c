package graph

import (
	"context"
	"testing"
)

func TestRecord_Decoding(t *testing.T) {
	rec := Record{
		"id":        int64(12),
		"name":      "Harbour",
		"neighbors": []any{int64(3), nil, int64(7)},
		"ratio":     2.5,
	}

	id, err := rec.Int("id")
	if err != nil || id != 12 {
		t.Fatalf("expected id 12, got %d (%v)", id, err)
	}
	if rec.String("name") != "Harbour" {
		t.Fatalf("unexpected name %q", rec.String("name"))
	}
	if rec.String("missing") != "" {
		t.Fatalf("expected empty string for missing key")
	}

	neighbors, err := rec.Ints("neighbors")
	if err != nil {
		t.Fatalf("decode neighbors: %v", err)
	}
	if len(neighbors) != 2 || neighbors[0] != 3 || neighbors[1] != 7 {
		t.Fatalf("unexpected neighbors %v", neighbors)
	}

	if _, err := rec.Int("ratio"); err == nil {
		t.Fatal("expected non-integral float to fail")
	}
	if _, err := rec.Int("missing"); err == nil {
		t.Fatal("expected missing key to fail")
	}
	if _, err := rec.Ints("name"); err == nil {
		t.Fatal("expected string to fail list decoding")
	}
}

func TestMemoryClient_RespondTo(t *testing.T) {
	mem := NewMemoryClient()
	mem.RespondTo("MATCH (n) RETURN n", Result{Records: []Record{{"n": int64(1)}}})
	mem.PushReadResult(Result{Records: []Record{{"n": int64(2)}}})

	for i := 0; i < 2; i++ {
		res, err := mem.ExecuteRead(context.Background(), "MATCH (n) RETURN n", nil)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got, _ := res.Records[0].Int("n"); got != 1 {
			t.Fatalf("expected canned response, got %d", got)
		}
	}

	res, _ := mem.ExecuteRead(context.Background(), "RETURN 2 AS n", nil)
	if got, _ := res.Records[0].Int("n"); got != 2 {
		t.Fatalf("expected queued response, got %d", got)
	}
	if len(mem.ReadCalls()) != 3 {
		t.Fatalf("expected 3 recorded reads, got %d", len(mem.ReadCalls()))
	}

	mem.Reset()
	if len(mem.ReadCalls()) != 0 {
		t.Fatal("expected reset to clear calls")
	}
}
