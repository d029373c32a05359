// pkg/petsc/version.go
package petsc

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a PETSc or SLEPc release number with its release flag.
type Version struct {
	Major    int
	Minor    int
	Subminor int
	Release  bool
}

// Short formats the version as major.minor.
func (v Version) Short() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Full formats the version as major.minor.subminor.
func (v Version) Full() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Subminor)
}

// Compare orders two versions numerically. It returns -1, 0 or +1 when
// v is older than, equal to or newer than o.
func (v Version) Compare(o Version) int {
	return semver.Compare("v"+v.Full(), "v"+o.Full())
}

// ReadVersionHeader parses a petscversion.h style header, returning
// the version defined by the <prefix>_VERSION_ macros.
func ReadVersionHeader(path, prefix string) (Version, error) {
	f, err := os.Open(path)
	if err != nil {
		return Version{}, fmt.Errorf("reading version header: %w", err)
	}
	defer f.Close()

	var v Version
	seen := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != "#define" {
			continue
		}
		name, value := fields[1], fields[2]
		atoi := func() (int, error) {
			n, err := strconv.Atoi(value)
			if err != nil {
				return 0, fmt.Errorf("parsing %s in %s: %w", name, path, err)
			}
			return n, nil
		}
		switch name {
		case prefix + "_VERSION_MAJOR":
			if v.Major, err = atoi(); err != nil {
				return Version{}, err
			}
			seen++
		case prefix + "_VERSION_MINOR":
			if v.Minor, err = atoi(); err != nil {
				return Version{}, err
			}
			seen++
		case prefix + "_VERSION_SUBMINOR":
			if v.Subminor, err = atoi(); err != nil {
				return Version{}, err
			}
			seen++
		case prefix + "_VERSION_RELEASE":
			v.Release = value != "0"
			seen++
		}
	}
	if err := scanner.Err(); err != nil {
		return Version{}, fmt.Errorf("reading version header: %w", err)
	}
	if seen < 4 {
		return Version{}, fmt.Errorf("%s does not define the %s version", path, prefix)
	}
	return v, nil
}
