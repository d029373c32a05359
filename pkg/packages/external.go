// pkg/packages/external.go
package packages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/neonkingfr/slepc/pkg/logging"
	"github.com/neonkingfr/slepc/pkg/probe"
)

// external is the embedded state shared by packages detected on the
// system: a filesystem search combined with link trials.
type external struct {
	name      string // canonical lowercase name
	guessName string // mixed-case stem for directory guesses

	with    bool
	dir     string
	flagcsv string

	outcome *probe.Outcome
}

func (e *external) Name() string {
	return e.name
}

// Requested reports whether any of the package's flags was given;
// naming a directory or explicit flags implies the test.
func (e *external) Requested() bool {
	return e.with || e.dir != "" || e.flagcsv != ""
}

func (e *external) RegisterFlags(fs *pflag.FlagSet) {
	u := strings.ToUpper(e.name)
	fs.BoolVar(&e.with, "with-"+e.name, false, "Test for "+u)
	fs.StringVar(&e.dir, "with-"+e.name+"-dir", "", "Directory containing the "+u+" libraries")
	fs.StringVar(&e.flagcsv, "with-"+e.name+"-flags", "", "Comma-separated flags for linking "+u)
}

// searchSpace returns the directories and library sets to try. User
// settings narrow the search: an explicit directory replaces the
// guesses and explicit flags replace the candidate library sets.
func (e *external) searchSpace(p *probe.Prober, libsets [][]string) ([]string, [][]string) {
	dirs := p.Guesses(e.guessName)
	if e.dir != "" {
		dirs = []string{e.dir}
	}
	if e.flagcsv != "" {
		libsets = [][]string{strings.Split(e.flagcsv, ",")}
	}
	return dirs, libsets
}

// beginCheck writes the transcript section marker for this package.
func (e *external) beginCheck(lg *logging.Log) {
	lg.Write(strings.Repeat("=", 80))
	lg.Println("Checking " + strings.ToUpper(e.name) + " library...")
}

// resolve runs the Fortran library search and records the outcome.
func (e *external) resolve(ctx context.Context, env *Env, desc *probe.Descriptor) (*probe.Outcome, error) {
	dirs, libsets := e.searchSpace(env.Prober, desc.LibrarySets)
	out, err := env.Prober.FortranLib(ctx, desc, dirs, libsets)
	if err != nil {
		return nil, err
	}
	env.Log.Write(out.Transcript)
	e.outcome = out
	return out, nil
}

func (e *external) ShowHelp(w io.Writer) {
	u := strings.ToUpper(e.name)
	fmt.Fprintf(w, "%s:\n", u)
	fmt.Fprintf(w, "%-35s: Indicate if you wish to test for %s\n", "  --with-"+e.name, u)
	fmt.Fprintf(w, "%-35s: Indicate the directory for %s libraries\n", "  --with-"+e.name+"-dir=<dir>", u)
	fmt.Fprintf(w, "%-35s: Indicate comma-separated flags for linking %s\n", "  --with-"+e.name+"-flags=<flags>", u)
}

func (e *external) ShowInfo(lg *logging.Log) {
	if e.outcome == nil || !e.outcome.Found {
		return
	}
	lg.Println(strings.ToUpper(e.name) + " library flags:")
	lg.Println(" " + strings.Join(e.outcome.Flags, " "))
}
