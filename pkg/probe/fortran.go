// pkg/probe/fortran.go
package probe

import (
	"context"
	"strings"
)

// FortranLink determines which name-mangling scheme links the given
// symbols: trailing underscore first, then all-uppercase, then
// unmodified names. On success only the winning trial's transcript is
// returned; when every scheme fails the combined transcript of all
// three comes back under a header naming the flags.
func (p *Prober) FortranLink(ctx context.Context, functions, callbacks, flags []string) (Mangling, string, error) {
	header := "\n=== With linker flags: " + strings.Join(flags, " ")

	res, err := p.TryLink(ctx, mangled(Underscore, functions), mangled(Underscore, callbacks), flags)
	if err != nil {
		return None, "", err
	}
	out1 := "\n====== With underscore Fortran names\n" + res.Output
	if res.OK {
		return Underscore, out1, nil
	}

	res, err = p.TryLink(ctx, mangled(Caps, functions), mangled(Caps, callbacks), flags)
	if err != nil {
		return None, "", err
	}
	out2 := "\n====== With capital Fortran names\n" + res.Output
	if res.OK {
		return Caps, out2, nil
	}

	res, err = p.TryLink(ctx, functions, callbacks, flags)
	if err != nil {
		return None, "", err
	}
	out3 := "\n====== With unmodified Fortran names\n" + res.Output
	if res.OK {
		return Stdcall, out3, nil
	}

	return None, header + out1 + out2 + out3, nil
}

func mangled(m Mangling, names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = m.Apply(n)
	}
	return out
}

// FortranLib searches directories (outer loop) and library sets
// (inner loop) for a combination that links, detecting the mangling
// scheme of the first match. The first success is final for the run;
// later combinations are never revisited.
func (p *Prober) FortranLib(ctx context.Context, desc *Descriptor, dirs []string, libsets [][]string) (*Outcome, error) {
	var all strings.Builder
	var flags []string
	for _, d := range dirs {
		for _, libs := range libsets {
			flags = linkFlags(p.slflag, d, libs)
			m, out, err := p.FortranLink(ctx, desc.Functions, desc.Callbacks, flags)
			if err != nil {
				return nil, err
			}
			all.WriteString(out)
			if m != None {
				return &Outcome{
					Package:    desc.Name,
					Found:      true,
					Dir:        d,
					Libs:       libs,
					Flags:      flags,
					Mangling:   m,
					Transcript: out,
				}, nil
			}
		}
	}
	return nil, &SearchError{
		Package:    strings.ToUpper(desc.Name),
		Dirs:       dirs,
		Flags:      flags,
		Transcript: all.String(),
	}
}

// Search is the FortranLib analogue for C libraries: the symbol names
// go to the linker as written, with no mangling trials.
func (p *Prober) Search(ctx context.Context, desc *Descriptor, dirs []string, libsets [][]string) (*Outcome, error) {
	var all strings.Builder
	var flags []string
	for _, d := range dirs {
		for _, libs := range libsets {
			flags = linkFlags(p.slflag, d, libs)
			res, err := p.TryLink(ctx, desc.Functions, desc.Callbacks, flags)
			if err != nil {
				return nil, err
			}
			out := "\n=== With linker flags: " + strings.Join(flags, " ") + "\n" + res.Output
			all.WriteString(out)
			if res.OK {
				return &Outcome{
					Package:    desc.Name,
					Found:      true,
					Dir:        d,
					Libs:       libs,
					Flags:      flags,
					Transcript: out,
				}, nil
			}
		}
	}
	return nil, &SearchError{
		Package:    strings.ToUpper(desc.Name),
		Dirs:       dirs,
		Flags:      flags,
		Transcript: all.String(),
	}
}

// linkFlags assembles the trial flags for one directory/library-set
// pair. Toolchains whose shared-linker flag carries an rpath get the
// runtime path ahead of -L.
func linkFlags(slflag, dir string, libs []string) []string {
	if dir == "" {
		return libs
	}
	flags := make([]string, 0, len(libs)+2)
	if strings.Contains(slflag, "rpath") {
		flags = append(flags, slflag+dir)
	}
	flags = append(flags, "-L"+dir)
	return append(flags, libs...)
}
