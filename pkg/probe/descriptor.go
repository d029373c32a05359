// pkg/probe/descriptor.go
package probe

import (
	"fmt"
	"strings"
)

// Mangling identifies how Fortran symbol names reach the linker.
type Mangling string

const (
	// Underscore appends a trailing underscore (the gfortran default).
	Underscore Mangling = "UNDERSCORE"
	// Caps upper-cases the whole name.
	Caps Mangling = "CAPS"
	// Stdcall leaves the name unmodified.
	Stdcall Mangling = "STDCALL"
	// None means no scheme linked.
	None Mangling = ""
)

// Apply returns name under the scheme.
func (m Mangling) Apply(name string) string {
	switch m {
	case Underscore:
		return name + "_"
	case Caps:
		return strings.ToUpper(name)
	default:
		return name
	}
}

// Descriptor declares an external package to probe: the candidate
// library sets in priority order, the symbols that must resolve, and
// optional callback symbols the library expects the caller to provide.
type Descriptor struct {
	Name        string
	LibrarySets [][]string
	Functions   []string
	Callbacks   []string
	Download    bool
}

// LinkResult is the outcome of one compile+link trial. Output carries
// the synthesized source followed by the tool output, ready for the
// transcript.
type LinkResult struct {
	OK     bool
	Output string
}

// Outcome records how a package was resolved. It is written exactly
// once per package; the emission layer renders it into the build
// artifacts afterwards.
type Outcome struct {
	Package    string
	Found      bool
	Dir        string
	Libs       []string
	Flags      []string
	Mangling   Mangling
	IncludeDir string
	Missing    []string
	Transcript string
}

// SearchError reports that every directory, library set and mangling
// combination failed for a package. Flags holds the last combination
// tried; Transcript the concatenated trial output.
type SearchError struct {
	Package    string
	Dirs       []string
	Flags      []string
	Transcript string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("unable to link with library %s", e.Package)
}
