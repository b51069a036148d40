package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"tube-adventures/internal/annotations"
	"tube-adventures/internal/library"

	"golang.org/x/term"
)

const (
	exitOK       = 0
	exitProblems = 1
	exitUsage    = 2
)

// options holds the parsed command line.
type options struct {
	audit   bool
	ext     string
	workers int
	color   bool
	paths   []string
}

func main() {
	// Create a context that cancels on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(exitUsage)
	}
	opts.color = opts.color && term.IsTerminal(int(os.Stdout.Fd()))

	if opts.audit {
		os.Exit(runAudit(ctx, opts, os.Stdout, os.Stderr))
	}
	os.Exit(runDump(opts, os.Stdout, os.Stderr))
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("annotations-dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr, fs) }

	opts := &options{}
	fs.BoolVar(&opts.audit, "audit", false, "Audit every annotation file of the given directories")
	fs.StringVar(&opts.ext, "ext", ".xml", "Annotation file extension used by -audit")
	fs.IntVar(&opts.workers, "workers", 0, "Files decoded in parallel by -audit (0 = auto)")
	fs.BoolVar(&opts.color, "color", true, "Colorize -audit results when writing to a terminal")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.paths = fs.Args()
	if len(opts.paths) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("no paths given")
	}
	return opts, nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Tube Adventures annotation dump")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  annotations-dump <file>...          Print the annotations of each file")
	fmt.Fprintln(w, "  annotations-dump -audit <dir>...    Check every annotation file of each directory")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}

// runDump prints every annotation of each file with its text quoted and
// its click URL, if any.
func runDump(opts *options, stdout, stderr io.Writer) int {
	code := exitOK
	for _, path := range opts.paths {
		list, err := annotations.ParseFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing file: %s. Error type: %s. Error: %v\n", path, annotations.KindOf(err), err)
			code = exitProblems
			continue
		}
		dumpFile(stdout, path, list)
	}
	return code
}

func dumpFile(w io.Writer, path string, list []annotations.Annotation) {
	fmt.Fprintf(w, "%s (%d annotations)\n", path, len(list))
	for i := range list {
		a := &list[i]
		fmt.Fprintf(w, "  %s %s %s\n", a.ID, a.Type, window(a))
		fmt.Fprintf(w, "    %q\n", a.Text)
		if a.ClickURL != "" {
			fmt.Fprintf(w, "    %q\n", a.ClickURL)
		}
	}
}

func window(a *annotations.Annotation) string {
	if a.EndRect == nil {
		return fmt.Sprintf("[%v, end]", a.StartRect.Time)
	}
	return fmt.Sprintf("[%v, %v]", a.StartRect.Time, a.EndRect.Time)
}

// runAudit decodes every file of each directory and reports files that fail
// to parse or that carry data problems.
func runAudit(ctx context.Context, opts *options, stdout, stderr io.Writer) int {
	start := time.Now()
	var all []library.Report
	for _, dir := range opts.paths {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			fmt.Fprintf(stderr, "Error: %s is not a directory\n", dir)
			return exitUsage
		}

		reports, err := library.Scan(ctx, library.NewLocator(dir, opts.ext), opts.workers)
		if err != nil {
			fmt.Fprintf(stderr, "Error: audit of %s interrupted: %v\n", dir, err)
			return exitProblems
		}
		all = append(all, reports...)
	}

	problems := 0
	for i := range all {
		if !printReport(stdout, &all[i], opts.color) {
			problems++
		}
	}

	dupes := library.DuplicateVideoIDs(all)
	ids := make([]string, 0, len(dupes))
	for id := range dupes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(stdout, "%s video ID %s is claimed by %d files:\n", mark(false, opts.color), id, len(dupes[id]))
		for _, path := range dupes[id] {
			fmt.Fprintf(stdout, "    %s\n", filepath.Base(path))
		}
		problems++
	}

	fmt.Fprintf(stdout, "\n%d files parsed in %v, %d problems\n", len(all), time.Since(start).Round(time.Millisecond), problems)
	if problems > 0 {
		return exitProblems
	}
	return exitOK
}

// printReport writes one audit line, plus one line per finding, and
// reports whether the file is clean.
func printReport(w io.Writer, r *library.Report, color bool) bool {
	clean := r.Clean()
	name := filepath.Base(r.Path)

	if !r.OK() {
		fmt.Fprintf(w, "%s %s: %s: %v\n", mark(false, color), name, r.Kind, r.Err)
		return false
	}

	fmt.Fprintf(w, "%s %s: %d annotations (%d gameplay, %d notes, %d external, %d open-ended)\n",
		mark(clean, color), name, r.Annotations, r.Gameplay, r.Notes, r.ExternalLinks, r.SingleRegion)

	if r.VideoID == "" {
		fmt.Fprintln(w, "    file name carries no video ID")
	}
	for _, id := range r.DuplicateIDs {
		fmt.Fprintf(w, "    annotation ID %q should be unique\n", id)
	}
	for _, id := range r.InvertedWindows {
		fmt.Fprintf(w, "    annotation %q ends before it starts\n", id)
	}
	for _, id := range r.BadLinks {
		fmt.Fprintf(w, "    annotation %q links to no video\n", id)
	}
	return clean
}

func mark(ok, color bool) string {
	switch {
	case ok && color:
		return "\x1b[32m[OK]\x1b[0m  "
	case ok:
		return "[OK]  "
	case color:
		return "\x1b[31m[FAIL]\x1b[0m"
	default:
		return "[FAIL]"
	}
}
