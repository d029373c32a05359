// pkg/probe/linker.go
package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// checkLinkSource synthesizes the trial translation unit: externs for
// the required symbols, no-op stubs for the callbacks, and a main that
// exercises the host library object lifecycle before calling each
// symbol.
func checkLinkSource(functions, callbacks []string) string {
	var b strings.Builder
	b.WriteString("#include \"petscksp.h\"\n")
	for _, f := range functions {
		b.WriteString("PETSC_EXTERN int\n")
		b.WriteString(f)
		b.WriteString("();\n")
	}
	for _, c := range callbacks {
		b.WriteString("int " + c + "() { return 0; } \n")
	}
	b.WriteString("int main() {\n")
	b.WriteString("Vec v; Mat m; KSP k;\n")
	b.WriteString("PetscInitializeNoArguments();\n")
	b.WriteString("VecCreate(PETSC_COMM_WORLD,&v);\n")
	b.WriteString("MatCreate(PETSC_COMM_WORLD,&m);\n")
	b.WriteString("KSPCreate(PETSC_COMM_WORLD,&k);\n")
	for _, f := range functions {
		b.WriteString(f + "();\n")
	}
	b.WriteString("return 0;\n}\n")
	return b.String()
}

// TryLink runs one compile+link trial with the given linker flags.
// Link failures come back in the result with their transcript; only
// infrastructure problems (an unwritable trial directory) are errors.
// The trial source is removed on every path.
func (p *Prober) TryLink(ctx context.Context, functions, callbacks, flags []string) (LinkResult, error) {
	src := checkLinkSource(functions, callbacks)
	cfile := filepath.Join(p.dir, "checklink.c")
	if err := os.WriteFile(cfile, []byte(src), 0o644); err != nil {
		return LinkResult{}, err
	}
	defer os.Remove(cfile)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := append([]string{}, p.make[1:]...)
	args = append(args, "checklink", "TESTFLAGS="+strings.Join(flags, " "))
	cmd := exec.CommandContext(ctx, p.make[0], args...)
	cmd.Dir = p.dir
	// Killing make leaves its compiler children holding the output
	// pipe; WaitDelay unblocks CombinedOutput instead of waiting on
	// them.
	cmd.WaitDelay = time.Second
	p.trace.Printf("link trial: %s %s", p.make[0], strings.Join(args, " "))

	out, err := cmd.CombinedOutput()
	output := src + string(out)
	if ctx.Err() == context.DeadlineExceeded {
		output += "\nlink trial timed out after " + p.timeout.String() + "\n"
		return LinkResult{Output: output}, nil
	}
	if err != nil {
		if len(out) == 0 {
			output += err.Error() + "\n"
		}
		p.trace.Printf("link trial failed: %v", err)
		return LinkResult{Output: output}, nil
	}
	return LinkResult{OK: true, Output: output}, nil
}
