package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadTopicsCSV(t *testing.T) {
	p := writeFile(t, "topics.csv", "id,Topic\n1,Climate Change\n2,  \n3,Vaccines\n4\n")
	got, err := ReadTopics(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"Climate Change", "Vaccines"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestReadTopicsCSVMissingHeader(t *testing.T) {
	p := writeFile(t, "topics.csv", "url\nhttps://x\n")
	if _, err := ReadTopics(p); err == nil {
		t.Fatal("expected header error")
	}
}

func TestReadTopicsCSVHeaderAliases(t *testing.T) {
	for _, content := range []string{
		"\uFEFFQuery,lang\n5G towers,en\n",
		"id, claim\n1, 5G towers\n",
	} {
		got, err := ReadTopics(writeFile(t, "topics.csv", content))
		if err != nil {
			t.Fatalf("read %q: %v", content, err)
		}
		if !reflect.DeepEqual(got, []string{"5G towers"}) {
			t.Fatalf("%q: got %v", content, got)
		}
	}
}

func TestReadTopicsDropsRepeats(t *testing.T) {
	p := writeFile(t, "topics.ndjson", "Vaccines\n{\"topic\":\"vaccines\"}\nMoon landing\n VACCINES \n")
	got, err := ReadTopics(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"Vaccines", "Moon landing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestReadTopicsNDJSON(t *testing.T) {
	p := writeFile(t, "topics.ndjson", "{\"topic\":\"5G towers\"}\n\nMoon landing\n{\"topic\":\" \"}\n")
	got, err := ReadTopics(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"5G towers", "Moon landing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestReadTopicsUnknownExtFallsBack(t *testing.T) {
	p := writeFile(t, "topics.txt", "Election fraud\n")
	got, err := ReadTopics(p)
	if err != nil || len(got) != 1 || got[0] != "Election fraud" {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	type rec struct {
		Topic string `json:"topic"`
	}
	if err := WriteNDJSON(&buf, []rec{{"a&b"}, {"c"}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"topic\":\"a&b\"}\n{\"topic\":\"c\"}\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
