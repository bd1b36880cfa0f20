// contentconv exports the embedded content tables as editable YAML and checks
// edited tables before a run loads them with -content.
//
// Usage:
//
//	go run ./cmd/contentconv -out data/content
//	go run ./cmd/contentconv -check data/content
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/replay"
)

const header = "# Exported by contentconv. Edit freely; run contentconv -check before use.\n"

func main() {
	out := flag.String("out", "", "directory to export the embedded tables into")
	check := flag.String("check", "", "directory of tables to validate")
	flag.Parse()

	var err error
	switch {
	case *check != "":
		err = checkDir(*check)
	case *out != "":
		err = export(*out)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func export(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	c := data.Default()
	for _, name := range c.Sources() {
		formatted, err := reformat(c.Source(name))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, append([]byte(header), formatted...), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

// reformat round-trips a document through a node tree so exports share one
// indentation style. Comments survive.
func reformat(raw []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checkDir(dir string) error {
	c, err := data.LoadDir(dir)
	if err != nil {
		return err
	}
	sum, err := replay.ContentHash(c)
	if err != nil {
		return err
	}
	embedded, err := replay.ContentHash(data.Default())
	if err != nil {
		return err
	}
	fmt.Printf("heroes:   %d\n", c.Heroes.Count())
	fmt.Printf("enemies:  %d\n", c.Enemies.Count())
	fmt.Printf("skills:   %d\n", c.Skills.Count())
	fmt.Printf("chapters: %d\n", c.Chapters.Count())
	fmt.Printf("upgrades: %d\n", c.Upgrades.Count())
	fmt.Printf("hash:     %x\n", sum)

	if bytes.Equal(sum, embedded) {
		fmt.Println("matches the embedded tables")
	} else {
		fmt.Println("differs from the embedded tables; replays recorded against one set will not verify against the other")
	}
	return nil
}
