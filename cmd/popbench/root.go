package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/clausecker/popcount"
	"github.com/clausecker/popcount/internal/bench"
	"github.com/clausecker/popcount/internal/randbuf"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeebo/errs"
)

// envPrefix is prepended to the upper cased flag names to form the
// environment variables popbench reads.
const envPrefix = "POPBENCH"

// Error is the class of configuration errors.
var Error = errs.Class("popbench")

// Command holds the configuration of one popbench run.
type Command struct {
	Megs        int
	Threads     int
	Kernels     []string
	ItersNaive  int
	ItersKernel int
	ItersFast   int
	LogLevel    string

	Stdout io.Writer
	Stderr io.Writer
}

// NewRootCommand returns the popbench command writing its report to
// stdout and its log to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &Command{Stdout: stdout, Stderr: stderr}

	rc := &cobra.Command{
		Use:   "popbench [megs]",
		Short: "Time population count strategies.",
		Long: `
Fills a buffer of the given number of MiB (default 100) with random
data and times every population count strategy on it, first using one
thread, then using all of them.  Every count is checked against the
naive bit by bit count.

All flags can also be given as environment variables prefixed with
` + envPrefix + `_ or in a configuration file.
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setAllConfig(viper.New(), cmd.Flags()); err != nil {
				return err
			}

			if len(args) == 1 {
				megs, err := strconv.Atoi(args[0])
				if err != nil {
					return Error.New("invalid number of megs %q", args[0])
				}
				c.Megs = megs
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run()
		},
	}

	flags := rc.Flags()
	flags.StringP("config", "c", "", "Configuration file to read from.")
	flags.IntVarP(&c.Megs, "megs", "m", 100, "MiB of random data to count.")
	flags.IntVarP(&c.Threads, "threads", "t", 0, "Threads for the parallel pass; 0 uses GOMAXPROCS.")
	flags.StringSliceVarP(&c.Kernels, "kernels", "k", nil, "Only time these selectors, e.g. popcnt,asm,mixed:popcnt,sideways,1:1.")
	flags.IntVar(&c.ItersNaive, "iters-naive", bench.DefaultIterations.Naive, "Iterations of the naive count.")
	flags.IntVar(&c.ItersKernel, "iters-kernel", bench.DefaultIterations.Kernel, "Iterations of the Kernighan and lookup table counts.")
	flags.IntVar(&c.ItersFast, "iters-fast", bench.DefaultIterations.Fast, "Iterations of all other counts.")
	flags.StringVar(&c.LogLevel, "log-level", "info", "Log level: debug, info, warn, or error.")

	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig reads every flag of flags from the command line, the
// environment, and the configuration file named by the config flag, in
// that order of priority, and stores the result back into the flags.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return Error.Wrap(err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Error.New("reading configuration file %q: %v", file, err)
		}

		for _, key := range v.AllKeys() {
			if flags.Lookup(key) == nil {
				return Error.New("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}

		var value string
		if f.Value.Type() == "stringSlice" {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}

		if value == f.DefValue || (f.Value.Type() == "stringSlice" && value == "") {
			return
		}

		if err := f.Value.Set(value); err != nil {
			flagErr = Error.New("invalid value %q for %s: %v", value, f.Name, err)
		}
	})

	return flagErr
}

// newLogger returns a logfmt logger writing to w that drops messages
// below the named level.
func newLogger(w io.Writer, name string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(name) {
	case "debug":
		opt = level.AllowDebug()
	case "info", "":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, Error.New("unknown log level %q", name)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

// Run generates the buffer and times the benchmark plan on it.
func (c *Command) Run() error {
	logger, err := newLogger(c.Stderr, c.LogLevel)
	if err != nil {
		return err
	}

	if c.Megs <= 0 {
		return Error.New("number of megs must be positive, got %d", c.Megs)
	}

	if c.Threads != 0 {
		if err := popcount.SetThreads(c.Threads); err != nil {
			return err
		}
		defer popcount.ResetThreads()
	}
	threads := popcount.Threads()

	var sels []popcount.Selector
	for _, k := range c.Kernels {
		sel, err := popcount.ParseSelector(k)
		if err != nil {
			return err
		}
		sels = append(sels, sel)
	}

	iters := bench.Iterations{Naive: c.ItersNaive, Kernel: c.ItersKernel, Fast: c.ItersFast}
	steps := bench.Only(bench.Plan(threads, iters), threads, iters, sels)

	size := c.Megs << 20
	fmt.Fprintf(c.Stdout, "Using %d megs of data (%s). threads: %d fast path: %s\n",
		c.Megs, humanize.IBytes(uint64(size)), threads, popcount.FastPath())
	level.Debug(logger).Log("msg", "planned benchmark", "steps", len(steps), "threads", threads, "pid", os.Getpid())

	fmt.Fprint(c.Stdout, "Generating random input... ")
	buf, err := randbuf.Generator{Workers: threads}.New(size)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.Stdout, "done.")

	timer := bench.Timer{Out: c.Stdout, Logger: logger}
	_, err = timer.Run(steps, buf)
	return err
}
