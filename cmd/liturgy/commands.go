package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	apperrors "github.com/FocuswithJustin/JuniperLiturgy/core/errors"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/ref"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/core/xml"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/config"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/embedded"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/base"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/logging"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/store"
)

// DetectCmd reports which providers accept a file.
type DetectCmd struct {
	Path string `arg:"" help:"Path to file to detect" type:"existingpath"`
}

func (c *DetectCmd) Run(cfg config.Config) error {
	fmt.Fprintf(stdout, "Detecting format of: %s\n\n", c.Path)
	matched := detectAll(c.Path, store.KindBible, embedded.Bibles())
	matched += detectAll(c.Path, store.KindSong, embedded.Songs())
	if matched == 0 {
		fmt.Fprintln(stdout, "\nNo format matched.")
	}
	return nil
}

func detectAll[T any](path, kind string, reg *formats.Registry[T]) int {
	matched := 0
	for _, p := range reg.Providers() {
		res := p.Detect(path)
		if res.Detected {
			matched++
			fmt.Fprintf(stdout, "  [MATCH] %s (%s): %s\n", p.Format().Name, kind, res.Reason)
		} else {
			fmt.Fprintf(stdout, "  [no]    %s (%s): %s\n", p.Format().Name, kind, res.Reason)
		}
	}
	return matched
}

// ImportCmd imports files into the configured store.
type ImportCmd struct {
	Paths  []string `arg:"" help:"Files to import" type:"existingfile"`
	Kind   string   `help:"Document kind" enum:"auto,bible,song" default:"auto"`
	DryRun bool     `name:"dry-run" help:"Parse and report without writing to the store"`
}

// importTotals accumulates counts across files.
type importTotals struct {
	created, updated, warnings, errors int
}

func (c *ImportCmd) Run(cfg config.Config) error {
	if c.DryRun {
		cfg.Backend = config.BackendMemory
	}
	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	bibles, songs := embedded.Bibles(), embedded.Songs()
	var totals importTotals
	for _, path := range c.Paths {
		kind, err := c.kindOf(path, bibles, songs)
		if err != nil {
			fmt.Fprintf(stdout, "%s\n  error: %v\n", path, err)
			totals.errors++
			continue
		}
		fmt.Fprintf(stdout, "%s (%s)\n", path, kind)
		if kind == store.KindBible {
			report(&totals, bibles.ImportAll(be.Bibles, path), func(b *bible.Bible) string {
				return fmt.Sprintf("%s  %s (%d verses)", b.ID, b.Name, b.VerseCount())
			})
		} else {
			report(&totals, songs.ImportAll(be.Songs, path), func(s *song.Song) string {
				return fmt.Sprintf("%s  %s", s.ID, s.Name)
			})
		}
	}

	verb := "Imported"
	if c.DryRun {
		verb = "Dry run:"
	}
	fmt.Fprintf(stdout, "\n%s %d created, %d updated, %d warnings, %d errors\n",
		verb, totals.created, totals.updated, totals.warnings, totals.errors)
	if totals.errors > 0 {
		return fmt.Errorf("%d import error(s)", totals.errors)
	}
	return nil
}

func (c *ImportCmd) kindOf(path string, bibles *formats.Registry[*bible.Bible], songs *formats.Registry[*song.Song]) (string, error) {
	switch c.Kind {
	case store.KindBible, store.KindSong:
		return c.Kind, nil
	}
	if _, err := bibles.Detect(path); err == nil {
		return store.KindBible, nil
	}
	if _, err := songs.Detect(path); err != nil {
		return "", err
	}
	return store.KindSong, nil
}

func report[T any](totals *importTotals, res *formats.ImportResult[T], describe func(T) string) {
	for _, doc := range res.Created {
		fmt.Fprintf(stdout, "  created  %s\n", describe(doc))
	}
	for _, doc := range res.Updated {
		fmt.Fprintf(stdout, "  updated  %s\n", describe(doc))
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(stdout, "  warning: %s\n", w)
	}
	for _, err := range res.Errors {
		fmt.Fprintf(stdout, "  error: %v\n", err)
	}
	totals.created += len(res.Created)
	totals.updated += len(res.Updated)
	totals.warnings += len(res.Warnings)
	totals.errors += len(res.Errors)
}

// ExportCmd writes a stored document in a chosen format.
type ExportCmd struct {
	ID     string `arg:"" help:"Document id"`
	Format string `short:"f" required:"" help:"Target format name"`
	Out    string `short:"o" help:"Output file (default stdout)" type:"path"`
}

func (c *ExportCmd) Run(cfg config.Config) error {
	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	var n int64
	if p, err := embedded.Songs().Lookup(c.Format); err == nil {
		s, err := be.Songs.Load(c.ID)
		if err != nil {
			return err
		}
		if n, err = exportTo(c.Out, p, s); err != nil {
			return err
		}
	} else if p, err := embedded.Bibles().Lookup(c.Format); err == nil {
		b, err := be.Bibles.Load(c.ID)
		if err != nil {
			return err
		}
		if n, err = exportTo(c.Out, p, b); err != nil {
			return err
		}
	} else {
		return err
	}

	logging.ExportFinished(c.Format, c.ID, n)
	return nil
}

// exportTo renders doc to the file out, or to stdout when out is empty.
func exportTo[T any](out string, p formats.Provider[T], doc T) (int64, error) {
	if out != "" {
		n, err := base.ExportFile(p, out, doc)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(stdout, "Wrote %s\n", out)
		return n, nil
	}
	var buf bytes.Buffer
	if err := p.Export(&buf, doc); err != nil {
		return 0, err
	}
	_, err := stdout.Write(buf.Bytes())
	return int64(buf.Len()), err
}

// VerseCmd prints verses of a stored bible.
type VerseCmd struct {
	BibleID   string `arg:"" name:"bible-id" help:"Stored bible id"`
	Reference string `arg:"" help:"Reference such as 'John 3:16' or 'Gen.1.1-3'"`
	Triplet   bool   `help:"Show the previous and next verse as well"`
}

func (c *VerseCmd) Run(cfg config.Config) error {
	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	b, err := be.Bibles.Load(c.BibleID)
	if err != nil {
		return err
	}
	r, err := ref.Parse(c.Reference)
	if err != nil {
		return err
	}

	if c.Triplet {
		lv, err := r.Resolve(b)
		if err != nil {
			return err
		}
		t := b.GetTriplet(lv.Book.Number, lv.Chapter.Number, lv.Verse.Number)
		printVerse(stdout, "  ", t.Previous)
		printVerse(stdout, "> ", t.Current)
		printVerse(stdout, "  ", t.Next)
		return nil
	}

	verses, err := r.ResolveRange(b)
	if err != nil {
		return err
	}
	for _, lv := range verses {
		printVerse(stdout, "", lv)
	}
	return nil
}

func printVerse(w io.Writer, marker string, lv *bible.LocatedVerse) {
	if lv == nil {
		return
	}
	fmt.Fprintf(w, "%s%s  %s\n", marker, lv.Reference(), lv.Verse.Text)
}

// InspectCmd runs an XPath query against an XML file.
type InspectCmd struct {
	Path  string `arg:"" help:"XML file" type:"existingfile"`
	XPath string `name:"xpath" default:"/*" help:"XPath expression"`
	Text  bool   `help:"Print text content instead of XML"`
}

func (c *InspectCmd) Run(cfg config.Config) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return apperrors.NewIO("open", c.Path, err)
	}
	defer f.Close()

	doc, err := xml.Parse(f)
	if err != nil {
		return err
	}
	nodes, err := doc.XPath(c.XPath)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		if c.Text {
			fmt.Fprintln(stdout, strings.TrimSpace(n.Text()))
		} else {
			fmt.Fprintln(stdout, n.OutputXML())
		}
	}
	fmt.Fprintf(stdout, "%d match(es)\n", len(nodes))
	return nil
}

// ListCmd lists the documents of a SQLite store.
type ListCmd struct {
	Kind string `help:"Only list this kind" enum:"all,bible,song" default:"all"`
}

func (c *ListCmd) Run(cfg config.Config) error {
	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.Close()
	if be.db == nil {
		return apperrors.NewUnsupported("list", "only the sqlite store can be listed")
	}

	kind := c.Kind
	if kind == "all" {
		kind = ""
	}
	entries, err := be.db.List(kind)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(stdout, "%-5s  %s  %s\n", e.Kind, e.ID, e.Name)
	}
	fmt.Fprintf(stdout, "%d document(s)\n", len(entries))
	return nil
}

// FormatsCmd lists the providers in detection order.
type FormatsCmd struct{}

func (c *FormatsCmd) Run(cfg config.Config) error {
	listFormats(store.KindBible, embedded.Bibles())
	listFormats(store.KindSong, embedded.Songs())
	return nil
}

func listFormats[T any](kind string, reg *formats.Registry[T]) {
	for _, p := range reg.Providers() {
		f := p.Format()
		access := "read/write"
		if f.ReadOnly {
			access = "read-only"
		}
		fmt.Fprintf(stdout, "%-5s  %-12s  %-10s  %s\n", kind, f.Name, access, strings.Join(f.Extensions, " "))
	}
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "liturgy version %s\n", version)
	return nil
}
