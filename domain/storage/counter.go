package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Counter hands out numbered save paths ({n}.{ext}) inside one directory and
// tracks how many images exist there in total and how many were taken today.
// The next path always uses total+1, so Down and Retire make the following
// paths reuse the freed numbers and on-disk names stay contiguous.
type Counter struct {
	mu    sync.Mutex
	dir   string
	ext   string
	total int
	today int
	now   func() time.Time
}

// NewCounter returns a counter for files with the given extension (without
// the leading dot). The directory is unset until ChangeDir is called.
func NewCounter(ext string) *Counter {
	return &Counter{ext: strings.TrimPrefix(strings.ToLower(ext), "."), now: time.Now}
}

// ChangeDir points the counter at dir, creating it if needed, and recounts
// the images already stored there.
func (c *Counter) ChangeDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", dir, err)
	}
	c.mu.Lock()
	c.dir = dir
	c.mu.Unlock()
	return c.Initialize()
}

// Initialize recounts the directory. total becomes the highest numeric stem
// present and today the number of numbered images modified on the current
// local date.
func (c *Counter) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dir == "" {
		c.total, c.today = 0, 0
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("storage: scan %s: %w", c.dir, err)
	}
	pattern := regexp.MustCompile(`^(\d+)\.` + regexp.QuoteMeta(c.ext) + `$`)
	y, m, d := c.now().Date()
	total, today := 0, 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := pattern.FindStringSubmatch(strings.ToLower(e.Name()))
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if n > total {
			total = n
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if yy, mm, dd := info.ModTime().Date(); yy == y && mm == m && dd == d {
			today++
		}
	}
	c.total, c.today = total, today
	return nil
}

// NextSavePath returns dir/{total+1}.{ext}. It does not reserve the number.
func (c *Counter) NextSavePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filepath.Join(c.dir, strconv.Itoa(c.total+1)+"."+c.ext)
}

// Up records n newly stored images.
func (c *Counter) Up(n int) {
	c.mu.Lock()
	c.total += n
	c.today += n
	c.mu.Unlock()
}

// Down records n removed images. Neither count drops below zero.
func (c *Counter) Down(n int) {
	c.mu.Lock()
	c.total = max(c.total-n, 0)
	c.today = max(c.today-n, 0)
	c.mu.Unlock()
}

// Retire records removed images by their modification times. total drops
// once per image and today only for images written on the current local date.
func (c *Counter) Retire(modTimes ...time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.now().Date()
	for _, t := range modTimes {
		c.total = max(c.total-1, 0)
		if yy, mm, dd := t.Date(); yy == y && mm == m && dd == d {
			c.today = max(c.today-1, 0)
		}
	}
}

func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Counter) Today() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.today
}

func (c *Counter) Dir() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dir
}

func (c *Counter) Ext() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ext
}

// SetExt switches the counted extension and recounts the directory.
func (c *Counter) SetExt(ext string) error {
	c.mu.Lock()
	c.ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	c.mu.Unlock()
	return c.Initialize()
}
