package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Event("start", map[string]any{"workers": 4})
	l.Event("found", map[string]any{"target": "t1", "candidate": "<pw>"})
	l.Event("abort", map[string]any{"error": "boom"})

	sc := bufio.NewScanner(&buf)
	var recs []map[string]any
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		recs = append(recs, rec)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0]["event"] != "start" || recs[0]["workers"] != float64(4) || recs[0]["ts"] == nil {
		t.Fatalf("record 0: %v", recs[0])
	}
	if recs[1]["candidate"] != "<pw>" {
		t.Fatalf("html escaped: %v", recs[1])
	}
	if recs[2]["level"] != "warning" {
		t.Fatalf("abort level: %v", recs[2])
	}
}

func TestCreateAndChain(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "events.jsonl"
	l, err := Create(fs, path)
	if err != nil {
		t.Fatal(err)
	}
	var seen []string
	fn := Chain(l.Event, nil, func(ev string, _ map[string]any) { seen = append(seen, ev) })
	fn("progress", map[string]any{"tried": 10})
	fn("done", nil)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 || len(seen) != 2 {
		t.Fatalf("lines %d seen %v", n, seen)
	}
}

func TestDebugRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Debug(NewConsole(&buf, false))("progress", map[string]any{"tried": 1})
	if buf.Len() != 0 {
		t.Fatalf("quiet console printed %q", buf.String())
	}
	Debug(NewConsole(&buf, true))("progress", map[string]any{"tried": 1})
	if !strings.Contains(buf.String(), "progress") {
		t.Fatalf("verbose console printed %q", buf.String())
	}
}
