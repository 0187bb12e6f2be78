package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"orion.app/api/internal/filestore"
	"orion.app/api/internal/model"
)

const (
	defaultScanConcurrency = 8
	longFileLines          = 100
)

var ignoredDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".git":         true,
	"coverage":     true,
	".next":        true,
	".nuxt":        true,
}

var ignoredFileNames = map[string]bool{
	"package-lock.json": true,
	"yarn.lock":         true,
	"pnpm-lock.yaml":    true,
	"bun.lockb":         true,
	"composer.lock":     true,
	"gemfile.lock":      true,
	"cargo.lock":        true,
	"poetry.lock":       true,
}

var ignoredSuffixes = []string{
	".lock", ".min.js", ".min.css", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp", ".bmp", ".tiff",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".mp3", ".mp4", ".wav", ".avi", ".mov", ".webm",
	".pdf", ".zip", ".tar", ".gz", ".rar", ".7z",
	".exe", ".dll", ".so", ".dylib", ".bin", ".class", ".jar", ".pyc",
	".css", ".scss", ".sass", ".less",
}

type bucket struct {
	keywords []string
	add      func(s *model.Structure, p string)
}

// buckets are tried in order; the first match wins.
var buckets = []bucket{
	{[]string{"controller"}, func(s *model.Structure, p string) { s.Controllers = append(s.Controllers, p) }},
	{[]string{"service"}, func(s *model.Structure, p string) { s.Services = append(s.Services, p) }},
	{[]string{"route"}, func(s *model.Structure, p string) { s.Routes = append(s.Routes, p) }},
	{[]string{"model", "schema"}, func(s *model.Structure, p string) { s.Models = append(s.Models, p) }},
	{[]string{"util", "helper"}, func(s *model.Structure, p string) { s.Utils = append(s.Utils, p) }},
	{[]string{"config", "package.json"}, func(s *model.Structure, p string) { s.Configs = append(s.Configs, p) }},
}

var (
	asyncKeyword    = regexp.MustCompile(`\basync\b`)
	awaitKeyword    = regexp.MustCompile(`\bawait\b`)
	hardcodedSecret = regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|api[_-]?key|access[_-]?token|auth[_-]?token|token)\b\s*[:=]\s*['"][^'"\s]{3,}['"]`)
	emptyCatch      = regexp.MustCompile(`catch\s*(\([^)]*\))?\s*\{\s*\}`)
)

// Scanner builds a CodeIndex from a project's file references.
type Scanner struct {
	files       filestore.Reader
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

type ScannerOption func(*Scanner)

func WithScanConcurrency(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithScanClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) { s.now = now }
}

func NewScanner(files filestore.Reader, logger *slog.Logger, opts ...ScannerOption) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{
		files:       files,
		concurrency: defaultScanConcurrency,
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type fileRead struct {
	content string
	err     error
}

// Scan never fails: refs without a URL are skipped, and unreadable files are
// counted and classified but contribute no lines, sizes or risk signals.
func (s *Scanner) Scan(ctx context.Context, projectID int64, refs []model.FileRef) model.CodeIndex {
	index := model.NewCodeIndex(projectID, s.now().UTC())

	var kept []model.FileRef
	for _, ref := range refs {
		if ref.SourceURL == "" {
			continue
		}
		if !ShouldScan(ref.SourceName) {
			continue
		}
		kept = append(kept, ref)
	}

	reads := make([]fileRead, len(kept))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, ref := range kept {
		g.Go(func() error {
			content, err := s.files.Read(ctx, ref.SourceURL)
			reads[i] = fileRead{content: content, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		sizeTotal   int
		readCount   int
		runtimeDeps = newOrderedSet()
		devDeps     = newOrderedSet()
	)

	for i, ref := range kept {
		name := ref.SourceName
		index.Stats.TotalFiles++
		if ext := fileExtension(name); ext != "" {
			index.Stats.Languages[ext]++
		}
		Classify(&index.Structure, name)

		read := reads[i]
		if read.err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable file",
				"file", name,
				"error", read.err)
			continue
		}

		content := read.content
		size := utf8.RuneCountInString(content)
		lines := strings.Count(content, "\n") + 1

		readCount++
		sizeTotal += size
		index.Stats.TotalLines += lines
		if size > index.Complexity.MaxFileSize {
			index.Complexity.MaxFileSize = size
		}
		if depth := braceDepth(content); depth > index.Complexity.DeepestNesting {
			index.Complexity.DeepestNesting = depth
		}

		if strings.EqualFold(path.Base(name), "package.json") {
			rt, dv, err := parseManifest(content)
			if err != nil {
				s.logger.WarnContext(ctx, "failed to parse package.json",
					"file", name,
					"error", err)
			} else {
				runtimeDeps.add(rt...)
				devDeps.add(dv...)
			}
		}

		index.RiskSignals = append(index.RiskSignals, DetectRisks(name, content)...)
	}

	if readCount > 0 {
		index.Complexity.AvgFileSize = int(math.Round(float64(sizeTotal) / float64(readCount)))
	}
	index.Dependencies.Runtime = runtimeDeps.items
	index.Dependencies.Dev = devDeps.items

	s.logger.InfoContext(ctx, "project scanned",
		"files_total", len(refs),
		"files_indexed", index.Stats.TotalFiles,
		"files_read", readCount,
		"risk_signals", len(index.RiskSignals))

	return index
}

// ShouldScan reports whether a path survives the directory denylist and the
// extension filter.
func ShouldScan(name string) bool {
	normalized := strings.ReplaceAll(name, "\\", "/")
	for _, segment := range strings.Split(normalized, "/") {
		if ignoredDirs[segment] {
			return false
		}
	}
	base := strings.ToLower(path.Base(normalized))
	if ignoredFileNames[base] {
		return false
	}
	for _, suffix := range ignoredSuffixes {
		if strings.HasSuffix(base, suffix) {
			return false
		}
	}
	return true
}

// Classify appends name to the first matching bucket and reports whether any
// bucket matched.
func Classify(s *model.Structure, name string) bool {
	lower := strings.ToLower(name)
	for _, b := range buckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				b.add(s, name)
				return true
			}
		}
	}
	return false
}

// DetectRisks runs the per-file heuristics. Every match yields one message.
func DetectRisks(name, content string) []string {
	var signals []string

	if asyncKeyword.MatchString(content) && !awaitKeyword.MatchString(content) {
		signals = append(signals, fmt.Sprintf("Async function without await in %s", name))
	}
	if hasSequentialAwaits(content, 3) {
		signals = append(signals, fmt.Sprintf("Sequential awaits in %s (consider parallelizing)", name))
	}
	if hardcodedSecret.MatchString(content) {
		signals = append(signals, fmt.Sprintf("Hardcoded credentials in %s", name))
	}
	if emptyCatch.MatchString(content) {
		signals = append(signals, fmt.Sprintf("Empty catch block in %s", name))
	}
	if lines := strings.Count(content, "\n") + 1; lines > longFileLines {
		signals = append(signals, fmt.Sprintf("Long file in %s (%d lines)", name, lines))
	}

	return signals
}

func hasSequentialAwaits(content string, run int) bool {
	streak := 0
	for _, line := range strings.Split(content, "\n") {
		if awaitKeyword.MatchString(line) {
			streak++
			if streak >= run {
				return true
			}
			continue
		}
		streak = 0
	}
	return false
}

func braceDepth(content string) int {
	depth, deepest := 0, 0
	for _, r := range content {
		switch r {
		case '{':
			depth++
			if depth > deepest {
				deepest = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return deepest
}

func parseManifest(content string) (runtime, dev []string, err error) {
	var manifest struct {
		Dependencies    map[string]any `json:"dependencies"`
		DevDependencies map[string]any `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, nil, err
	}
	return sortedKeys(manifest.Dependencies), sortedKeys(manifest.DevDependencies), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fileExtension(name string) string {
	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]bool{}, items: []string{}}
}

func (o *orderedSet) add(values ...string) {
	for _, v := range values {
		if !o.seen[v] {
			o.seen[v] = true
			o.items = append(o.items, v)
		}
	}
}
