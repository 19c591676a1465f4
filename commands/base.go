package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/josephlewis42/seashell/core/vos"
	getopt "github.com/pborman/getopt/v2"
)

// ErrMissingParameters is returned when a builtin is invoked with fewer
// positional arguments than it needs.
var ErrMissingParameters = errors.New("Missing parameters")

// Builtin is a command that runs inside the shell binary rather than being
// looked up on the PATH.
type Builtin struct {
	// Name the builtin is invoked by.
	Name string
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the builtin.
	Short string
	// MinArgs is the number of positional arguments the builtin requires.
	MinArgs int
	// Proc runs the builtin.
	Proc vos.ProcessFunc
}

// Validate checks argv (argv[0] is the name) has enough arguments to run.
// Help requests always validate.
func (b *Builtin) Validate(argv []string) error {
	for _, arg := range argv[1:] {
		if arg == "-h" || arg == "--help" {
			return nil
		}
	}
	if len(argv)-1 < b.MinArgs {
		return ErrMissingParameters
	}
	return nil
}

// Registry maps names to builtins.
type Registry struct {
	builtins map[string]*Builtin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builtins: make(map[string]*Builtin)}
}

// Register adds a builtin, replacing any existing one with the same name.
func (r *Registry) Register(b Builtin) {
	r.builtins[b.Name] = &b
}

// Lookup finds a builtin by exact name.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	b, ok := r.builtins[name]
	return b, ok
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	var out []string
	for name := range r.builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All lists the registered builtins sorted by name.
func (r *Registry) All() []*Builtin {
	var out []*Builtin
	for _, name := range r.Names() {
		out = append(out, r.builtins[name])
	}
	return out
}

// AllCommands holds all registered builtins.
var AllCommands = NewRegistry()

// mustAddBuiltin registers a builtin at init time.
func mustAddBuiltin(b Builtin) {
	if b.Proc == nil {
		panic(fmt.Sprintf("builtin %q has no process", b.Name))
	}
	if _, ok := AllCommands.Lookup(b.Name); ok {
		panic(fmt.Sprintf("builtin %q registered twice", b.Name))
	}
	AllCommands.Register(b)
}

// SimpleCommand parses flags for a builtin and prints help.
type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback with the
// positional arguments.
func (s *SimpleCommand) Run(virtOS vos.VOS, callback func(args []string) int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	if err := opts.Getopt(virtOS.Args(), nil); err != nil {
		fmt.Fprintf(virtOS.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(virtOS.Stdout())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(virtOS.Stdout())
		return 0
	}

	return callback(opts.Args())
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorRed   = color.New(color.FgRed)
	ColorGreen = color.New(color.FgGreen)
	ColorBlue  = color.New(color.FgBlue)
)

// ColorPrinter adds a --color flag to a command and formats text accordingly.
type ColorPrinter struct {
	value *string
}

// Init sets up the flag used to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set) {
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

// ShouldColor reports whether output should be colored. In auto mode this
// follows the terminal detection of the color package.
func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case c.value == nil:
		return !color.NoColor
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return !color.NoColor
	}
}

// Sprintf formats the string in the given color if output should be colored.
func (c *ColorPrinter) Sprintf(col *color.Color, format string, a ...interface{}) string {
	if !c.ShouldColor() {
		return fmt.Sprintf(format, a...)
	}
	forced := *col
	forced.EnableColor()
	return forced.Sprintf(format, a...)
}
