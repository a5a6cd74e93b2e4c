package cli

import (
	"flag"
	"reflect"
	"testing"
)

func TestListFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var ids []int64
	var exts []string
	fsIntsVar(fs, &ids, "ids", "")
	fsStringsVar(fs, &exts, "exts", []string{".mp3"}, "")

	if !reflect.DeepEqual(exts, []string{".mp3"}) {
		t.Fatalf("default exts = %v; want [.mp3]", exts)
	}
	if err := fs.Parse([]string{"-ids", "1, 2", "-ids", "-100", "-exts", ".ogg,.wav"}); err != nil {
		t.Fatal(err)
	}
	if want := []int64{1, 2, -100}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v; want %v", ids, want)
	}
	if want := []string{".ogg", ".wav"}; !reflect.DeepEqual(exts, want) {
		t.Fatalf("exts = %v; want %v", exts, want)
	}
	if err := fs.Set("ids", "x"); err == nil {
		t.Fatal("Set(ids, x) err = nil")
	}
}

func TestSubcommands(t *testing.T) {
	cmd := New("v", "c", "d")
	var names []string
	for _, sub := range cmd.Subcommands {
		names = append(names, sub.Name)
	}
	want := []string{"version", "migrate", "serve", "identify", "search"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("subcommands = %v; want %v", names, want)
	}
}
