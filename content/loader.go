package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/go-playground/validator/v10"
	"github.com/goliatone/go-slug"

	"github.com/eringen/folio/markdown"
)

// wordsPerMinute is the reading speed used for TimeToRead.
const wordsPerMinute = 200

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadOptions controls how articles are discovered.
type LoadOptions struct {
	// Dir is the collection directory inside the filesystem (default "articles").
	// It is also the first slug segment that SlugAsParams drops.
	Dir string
	// Strict makes duplicate slugs a load error instead of a warning.
	Strict bool
}

func (o *LoadOptions) setDefaults() {
	if strings.TrimSpace(o.Dir) == "" {
		o.Dir = "articles"
	}
	o.Dir = path.Clean(o.Dir)
}

type frontMatter struct {
	Title       string    `yaml:"title" validate:"required"`
	Description string    `yaml:"description"`
	Date        time.Time `yaml:"date" validate:"required"`
	Published   *bool     `yaml:"published"`
	Tags        []string  `yaml:"tags" validate:"dive,required"`
}

// Load walks opts.Dir for .md and .mdx files, compiles each one and returns
// the resulting collection. Files are visited in lexical order, which fixes
// the winner of a duplicate slug. Files that map to no slug, like a root
// index, are left out and reported by Collection.Skipped.
func Load(ctx context.Context, fsys fs.FS, opts LoadOptions) (*Collection, error) {
	opts.setDefaults()

	var (
		articles []Article
		skipped  []string
	)
	err := fs.WalkDir(fsys, opts.Dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isArticleFile(p) {
			return nil
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		a, err := BuildArticle(p, opts.Dir, src)
		if errors.Is(err, ErrNoSlug) {
			skipped = append(skipped, p)
			return nil
		}
		if err != nil {
			return err
		}
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	c := NewCollection(articles)
	c.skipped = skipped
	if opts.Strict {
		if dups := c.Duplicates(); len(dups) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, strings.Join(dups, ", "))
		}
	}
	return c, nil
}

// BuildArticle compiles a single source file located at p inside the
// collection directory dir.
func BuildArticle(p, dir string, src []byte) (Article, error) {
	slugPath, params, err := deriveSlug(p, dir)
	if err != nil {
		return Article{}, err
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return Article{}, fmt.Errorf("%s: parse frontmatter: %w", p, err)
	}
	if err := validate.Struct(fm); err != nil {
		return Article{}, fmt.Errorf("%s: invalid frontmatter: %w", p, err)
	}

	code, err := markdown.Compile(body)
	if err != nil {
		return Article{}, fmt.Errorf("%s: %w", p, err)
	}

	published := true
	if fm.Published != nil {
		published = *fm.Published
	}

	return Article{
		Slug:         slugPath,
		SlugAsParams: params,
		Title:        strings.TrimSpace(fm.Title),
		Description:  strings.TrimSpace(fm.Description),
		Date:         fm.Date,
		TimeToRead:   ReadingMinutes(markdown.WordCount(body)),
		Published:    published,
		Tags:         append([]string(nil), fm.Tags...),
		Body: Body{
			Raw:  string(body),
			Code: code,
		},
		SourcePath: p,
	}, nil
}

// ReadingMinutes converts a word count to whole minutes, rounding up.
func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

func isArticleFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".mdx":
		return true
	}
	return false
}

// deriveSlug returns the "/"-prefixed slug and the SlugAsParams for the file
// at p. A trailing "index" file takes the name of its directory.
func deriveSlug(p, dir string) (string, string, error) {
	flattened := strings.TrimSuffix(p, path.Ext(p))
	if path.Base(flattened) == "index" {
		flattened = path.Dir(flattened)
	}

	rel := strings.TrimPrefix(flattened, dir)
	rel = strings.Trim(rel, "/")
	if dir == "." {
		rel = strings.Trim(flattened, "/")
	}
	if rel == "" || rel == "." {
		return "", "", fmt.Errorf("%s: %w", p, ErrNoSlug)
	}

	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		normalized, err := slug.Normalize(seg)
		if err != nil {
			return "", "", fmt.Errorf("%s: normalize slug segment %q: %w", p, seg, err)
		}
		if normalized == "" {
			return "", "", fmt.Errorf("%s: slug segment %q is empty after normalization", p, seg)
		}
		segments[i] = normalized
	}
	params := strings.Join(segments, "/")

	prefix := ""
	if dir != "." {
		prefix = "/" + dir
	}
	return prefix + "/" + params, params, nil
}
