package data

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"sync"
)

//go:embed content/*.yaml
var embedded embed.FS

// Content bundles every static table a run needs.
type Content struct {
	Heroes   *HeroTable
	Enemies  *EnemyTable
	Bosses   *BossTable
	Skills   *SkillTable
	Chapters *ChapterTable
	Upgrades *UpgradeTable

	raw map[string][]byte
}

var tableFiles = []struct {
	name  string
	parse func(c *Content, raw []byte) error
}{
	{"heroes.yaml", func(c *Content, raw []byte) (err error) { c.Heroes, err = parseHeroTable(raw); return }},
	{"enemies.yaml", func(c *Content, raw []byte) (err error) { c.Enemies, err = parseEnemyTable(raw); return }},
	{"bosses.yaml", func(c *Content, raw []byte) (err error) { c.Bosses, err = parseBossTable(raw); return }},
	{"skills.yaml", func(c *Content, raw []byte) (err error) { c.Skills, err = parseSkillTable(raw); return }},
	{"chapters.yaml", func(c *Content, raw []byte) (err error) { c.Chapters, err = parseChapterTable(raw); return }},
	{"upgrades.yaml", func(c *Content, raw []byte) (err error) { c.Upgrades, err = parseUpgradeTable(raw); return }},
}

// Load reads and validates all content tables from fsys.
func Load(fsys fs.FS) (*Content, error) {
	c := &Content{raw: make(map[string][]byte, len(tableFiles))}
	for _, tf := range tableFiles {
		raw, err := fs.ReadFile(fsys, tf.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", tf.name, err)
		}
		if err := tf.parse(c, raw); err != nil {
			return nil, err
		}
		c.raw[tf.name] = raw
	}
	return c, nil
}

// LoadDir loads content from a directory on disk (modding/testing override).
func LoadDir(dir string) (*Content, error) {
	return Load(os.DirFS(dir))
}

var (
	defaultOnce    sync.Once
	defaultContent *Content
)

// Default returns the embedded content. Embedded tables are part of the build,
// so a validation failure here panics.
func Default() *Content {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "content")
		if err != nil {
			panic(fmt.Sprintf("embedded content: %v", err))
		}
		c, err := Load(sub)
		if err != nil {
			panic(fmt.Sprintf("embedded content: %v", err))
		}
		defaultContent = c
	})
	return defaultContent
}

// Sources lists the table file names, sorted.
func (c *Content) Sources() []string {
	names := make([]string, 0, len(c.raw))
	for n := range c.raw {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Source returns the raw bytes a table was parsed from.
func (c *Content) Source(name string) []byte { return c.raw[name] }

// WriteTo streams every source file, sorted by name and prefixed by it, into w.
// Replays hash this to detect content drift.
func (c *Content) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, n := range c.Sources() {
		k, err := io.WriteString(w, n+"\x00")
		total += int64(k)
		if err != nil {
			return total, err
		}
		k, err = w.Write(c.raw[n])
		total += int64(k)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
