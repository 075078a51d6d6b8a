package xrotate_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeyang/xsink/pkg/observability/xrotate"
	"github.com/omeyang/xsink/pkg/util/xfile"
)

func ExampleNew() {
	dir, _ := os.MkdirTemp("", "xrotate-example")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "app.log")
	b, err := xfile.OpenAppend(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer b.Close()

	r, err := xrotate.New(b, xrotate.Config{Kind: xrotate.KindSize, Size: 8, Backups: 2})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, msg := range []string{"first\n", "second\n", "third\n"} {
		_, _ = b.Write([]byte(msg))
		if ok, _ := r.Necessary([]byte(msg)); ok {
			_ = r.Rotate()
		}
	}

	backup, _ := os.ReadFile(path + ".1")
	current, _ := os.ReadFile(path)
	fmt.Printf("backup: %q\n", backup)
	fmt.Printf("current: %q\n", current)
	// Output:
	// backup: "first\nsecond\n"
	// current: "third\n"
}

func ExampleParsePeriod() {
	_, err := xrotate.ParsePeriod("daily")
	fmt.Println(err)
	_, err = xrotate.ParsePeriod("fortnightly")
	fmt.Println(err != nil)
	// Output:
	// <nil>
	// true
}
