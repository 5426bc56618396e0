package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/segmentio/fasthash/fnv1a"

	. "github.com/viktordanov/lsystem-svg"
	"github.com/viktordanov/lsystem-svg/config"
	"github.com/viktordanov/lsystem-svg/svg"
	"github.com/viktordanov/lsystem-svg/turtle"
)

const (
	defaultIterations = 8
	defaultStep       = 10.0
	defaultOutDir     = "outputs"
)

const usage = `usage: lsystem [options] description.yml

options:
  -n N      rewrite N generations (default 8)
  -o DIR    write SVG files to DIR (default outputs)
  -s SEED   seed for stochastic rules and jitter (default: hash of the system name)
  -j J      randomize steps and turns by up to ±J, 0 <= J <= 1 (default 0)
  -l STEP   length of a forward step (default 10)
  -a        also write a growth chart next to every SVG
  -p FILE   write a CPU profile to FILE
  -v        log progress
  -h        show this help
`

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

type options struct {
	iterations int
	outDir     string
	seed       uint64
	seedSet    bool
	jitter     float64
	step       float64
	chart      bool
	cpuprofile string
	verbose    bool
	input      string
}

var (
	errUsage = errors.New("usage")
	errHelp  = errors.New("help requested")
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err == errHelp {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if err != nil {
		errorColor.Fprintf(stderr, "lsystem: %v\n", err)
		fmt.Fprint(stderr, usage)
		return 2
	}

	logger := log.New(io.Discard, "lsystem: ", 0)
	if opts.verbose {
		logger.SetOutput(stderr)
	}

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			errorColor.Fprintf(stderr, "lsystem: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			errorColor.Fprintf(stderr, "lsystem: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	systems, err := config.Load(opts.input)
	if err != nil {
		errorColor.Fprintf(stderr, "lsystem: %v\n", err)
		return 1
	}

	for _, ls := range systems {
		for _, r := range ls.Shadowed() {
			warnColor.Fprintf(stderr, "lsystem: %s: rule for %q is shadowed by an earlier rule\n", ls.Name, r)
		}
		path, err := render(ls, opts, logger)
		if err != nil {
			errorColor.Fprintf(stderr, "lsystem: %s: %v\n", ls.Name, err)
			return 1
		}
		fmt.Fprintln(stdout, path)
	}
	return 0
}

func parseArgs(args []string) (options, error) {
	opts := options{
		iterations: defaultIterations,
		outDir:     defaultOutDir,
		step:       defaultStep,
	}

	parsed, optind, err := getopt.Getopts(args, "n:o:s:j:l:ap:vh")
	if err != nil {
		return opts, err
	}
	for _, opt := range parsed {
		switch opt.Option {
		case 'n':
			n, err := strconv.Atoi(opt.Value)
			if err != nil || n < 0 {
				return opts, errors.Errorf("invalid -n %q", opt.Value)
			}
			opts.iterations = n
		case 'o':
			opts.outDir = opt.Value
		case 's':
			seed, err := strconv.ParseUint(opt.Value, 10, 64)
			if err != nil {
				return opts, errors.Errorf("invalid -s %q", opt.Value)
			}
			opts.seed = seed
			opts.seedSet = true
		case 'j':
			j, err := strconv.ParseFloat(opt.Value, 64)
			if err != nil || j < 0 || j > 1 {
				return opts, errors.Errorf("invalid -j %q", opt.Value)
			}
			opts.jitter = j
		case 'l':
			l, err := strconv.ParseFloat(opt.Value, 64)
			if err != nil || !(l > 0) {
				return opts, errors.Errorf("invalid -l %q", opt.Value)
			}
			opts.step = l
		case 'a':
			opts.chart = true
		case 'p':
			opts.cpuprofile = opt.Value
		case 'v':
			opts.verbose = true
		case 'h':
			return opts, errHelp
		}
	}

	rest := args[optind:]
	if len(rest) != 1 {
		return opts, errors.Wrap(errUsage, "expected exactly one description file")
	}
	opts.input = rest[0]
	return opts, nil
}

// OutputPath is where the rendering of a system after iters generations is written.
func OutputPath(dir, name string, iters int) string {
	name = strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(name)
	return filepath.Join(dir, name+"_"+strconv.Itoa(iters)+".svg")
}

// seedFor makes renders of a system reproducible unless a seed is given.
func seedFor(ls *LSystem, opts options) uint64 {
	if opts.seedSet {
		return opts.seed
	}
	return fnv1a.HashString64(ls.Name)
}

func render(ls *LSystem, opts options, logger *log.Logger) (string, error) {
	start := time.Now()
	rng := NewRand(seedFor(ls, opts))
	out := OutputPath(opts.outDir, ls.Name, opts.iterations)

	if opts.chart {
		report, err := ls.AnalyseGrowth(opts.iterations, rng)
		if err != nil {
			return "", err
		}
		if err := writeChart(strings.TrimSuffix(out, ".svg")+".html", report); err != nil {
			return "", err
		}
		logger.Printf("%s: average growth %.4f", ls.Name, report.AverageGrowth())
	} else if err := ls.Iterate(opts.iterations, rng); err != nil {
		return "", err
	}
	logger.Printf("%s: %d symbols after %d generations (%v)", ls.Name, len(ls.State()), opts.iterations, time.Since(start).Round(time.Millisecond))

	path := svg.NewPath()
	err := turtle.WalkSymbols(ls.State(), ls.Alphabet.Rune, turtle.Config{
		Step:        opts.step,
		Turn:        ls.TurnAngle,
		Jitter:      opts.jitter,
		InitHeading: ls.InitAngle,
		Rand:        rng,
	}, path)
	if err != nil {
		return "", err
	}

	svgOpts := svg.DefaultOptions()
	svgOpts.Title = ls.Name
	if err := writeFile(out, func(w io.Writer) error { return path.Render(w, svgOpts) }); err != nil {
		return "", err
	}
	logger.Printf("%s: wrote %d path commands to %s (%v)", ls.Name, path.Len(), out, time.Since(start).Round(time.Millisecond))
	return out, nil
}

func writeChart(out string, report *GrowthReport) error {
	return writeFile(out, report.RenderChart)
}

func writeFile(out string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Wrapf(config.ErrIO, "%v", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(config.ErrIO, "%v", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(config.ErrIO, "write %s: %v", out, err)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(config.ErrIO, "%v", err)
	}
	return nil
}
