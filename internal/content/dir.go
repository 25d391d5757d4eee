package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	lessonsDir       = "lessons"
	feedbackDir      = "feedback"
	lessonManifest   = "lesson.yaml"
	feedbackManifest = "feedback.yaml"
)

type lessonManifestFile struct {
	Question       string            `yaml:"question" validate:"required"`
	Diagram        string            `yaml:"diagram" validate:"required"`
	Narration      string            `yaml:"narration" validate:"required"`
	Script         map[string]string `yaml:"script"`
	Braille        map[string]string `yaml:"braille"`
	DiagramContext string            `yaml:"diagram_context" validate:"required"`
}

type feedbackManifestFile struct {
	Text              string `yaml:"text" validate:"required"`
	BrailleCorrection string `yaml:"braille_correction"`
}

// manifests reports missing manifest fields by their yaml names.
var manifests = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	return v
}()

// DirStore reads packs from a directory tree:
//
//	<root>/lessons/<n>/lesson.yaml
//	<root>/feedback/<n>/feedback.yaml
//
// where <n> is the item number. Paths in a manifest are relative to the
// manifest's directory.
type DirStore struct {
	root     string
	log      *zap.Logger
	contexts *cache.Cache

	mu       sync.Mutex
	excluded []Exclusion
}

var _ Store = (*DirStore)(nil)

// NewDirStore creates a store rooted at cfg.Root.
func NewDirStore(cfg Config, log *zap.Logger) *DirStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirStore{
		root:     cfg.Root,
		log:      log.Named("content"),
		contexts: cache.New(cfg.ContextTTL, 2*cfg.ContextTTL),
	}
}

// Excluded returns the items left out by the most recent loads.
func (s *DirStore) Excluded() []Exclusion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.excluded)
}

func (s *DirStore) LoadLessonPack(ctx context.Context) (*LessonPack, error) {
	var items []*LessonItem
	err := s.walk(ctx, lessonsDir, func(number int, dir string) error {
		item, err := readLesson(number, dir)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", lessonsDir, ErrNotFound)
	}
	return NewPack(items...), nil
}

func (s *DirStore) LoadFeedbackPack(ctx context.Context) (*FeedbackPack, error) {
	var items []*FeedbackItem
	err := s.walk(ctx, feedbackDir, func(number int, dir string) error {
		item, err := readFeedback(number, dir)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", feedbackDir, ErrNotFound)
	}
	return NewPack(items...), nil
}

// ReadDiagramContext returns the structured description of the item's
// diagram. Reads are cached per file.
func (s *DirStore) ReadDiagramContext(_ context.Context, item *LessonItem) (string, error) {
	if item.contextPath == "" {
		return "", fmt.Errorf("lesson %d has no diagram context: %w", item.Number, ErrResourceMissing)
	}
	if v, ok := s.contexts.Get(item.contextPath); ok {
		return v.(string), nil
	}
	data, err := os.ReadFile(item.contextPath)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("lesson %d diagram context: %w", item.Number, ErrResourceMissing)
	}
	if err != nil {
		return "", fmt.Errorf("read diagram context: %w", err)
	}
	text := strings.TrimSpace(string(data))
	s.contexts.Set(item.contextPath, text, cache.DefaultExpiration)
	return text, nil
}

// walk visits numbered item directories of a pack in ascending order.
// Items whose visit fails are recorded and skipped; one bad item never
// fails the pack.
func (s *DirStore) walk(ctx context.Context, pack string, visit func(number int, dir string) error) error {
	base := filepath.Join(s.root, pack)
	entries, err := os.ReadDir(base)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", pack, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s pack: %w", pack, err)
	}

	type numbered struct {
		n   int
		dir string
	}
	var dirs []numbered
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil || n < 1 {
			continue
		}
		dirs = append(dirs, numbered{n, filepath.Join(base, e.Name())})
	}
	slices.SortFunc(dirs, func(a, b numbered) int { return a.n - b.n })

	s.mu.Lock()
	s.excluded = slices.DeleteFunc(s.excluded, func(x Exclusion) bool { return x.Pack == pack })
	s.mu.Unlock()

	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := visit(d.n, d.dir)
		if err == nil {
			continue
		}
		ex := Exclusion{Pack: pack, Number: d.n, Err: err}
		s.log.Warn("item excluded", zap.String("pack", pack), zap.Int("number", d.n), zap.Error(err))
		s.mu.Lock()
		s.excluded = append(s.excluded, ex)
		s.mu.Unlock()
	}
	return nil
}

func readLesson(number int, dir string) (*LessonItem, error) {
	var m lessonManifestFile
	if err := decodeManifest(filepath.Join(dir, lessonManifest), &m); err != nil {
		return nil, err
	}
	m.Question = strings.TrimSpace(m.Question)
	if err := checkManifest(&m); err != nil {
		return nil, err
	}

	item := &LessonItem{Number: number, Question: m.Question}
	var err error
	if item.Diagram, err = requireFile(dir, m.Diagram, "diagram"); err != nil {
		return nil, err
	}
	if item.Narration, err = requireFile(dir, m.Narration, "narration"); err != nil {
		return nil, err
	}
	if item.contextPath, err = requireFile(dir, m.DiagramContext, "diagram context"); err != nil {
		return nil, err
	}
	if item.ScriptEnglish, err = readText(dir, m.Script["en"], "english script"); err != nil {
		return nil, err
	}
	if item.ScriptUrdu, err = readText(dir, m.Script["ur"], "urdu script"); err != nil {
		return nil, err
	}
	if item.BrailleEnglish, err = readText(dir, m.Braille["en"], "english braille"); err != nil {
		return nil, err
	}
	if item.BrailleUrdu, err = readText(dir, m.Braille["ur"], "urdu braille"); err != nil {
		return nil, err
	}
	return item, nil
}

func readFeedback(number int, dir string) (*FeedbackItem, error) {
	var m feedbackManifestFile
	if err := decodeManifest(filepath.Join(dir, feedbackManifest), &m); err != nil {
		return nil, err
	}
	m.Text = strings.TrimSpace(m.Text)
	if err := checkManifest(&m); err != nil {
		return nil, err
	}
	item := &FeedbackItem{Number: number, Text: m.Text}
	if m.BrailleCorrection != "" {
		text, err := readText(dir, m.BrailleCorrection, "braille correction")
		if err != nil {
			return nil, err
		}
		item.BrailleCorrection = text
	}
	return item, nil
}

func decodeManifest(path string, v any) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrResourceMissing)
	}
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// checkManifest turns missing required fields into ErrResourceMissing.
func checkManifest(m any) error {
	err := manifests.Struct(m)
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		fields := make([]string, 0, len(invalid))
		for _, fe := range invalid {
			fields = append(fields, fe.Field())
		}
		return fmt.Errorf("%s not declared: %w", strings.Join(fields, ", "), ErrResourceMissing)
	}
	return err
}

func requireFile(dir, rel, what string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%s not declared: %w", what, ErrResourceMissing)
	}
	path := filepath.Join(dir, rel)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s %s: %w", what, rel, ErrResourceMissing)
		}
		return "", fmt.Errorf("stat %s: %w", what, err)
	}
	return path, nil
}

func readText(dir, rel, what string) (string, error) {
	path, err := requireFile(dir, rel, what)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	return strings.TrimSpace(string(data)), nil
}
