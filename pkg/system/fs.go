package system

import "github.com/spf13/afero"

// AppFs is the filesystem used for config files, expected-output files and
// working-directory checks. Tests replace it with an in-memory filesystem.
var AppFs afero.Fs = afero.NewOsFs()
