package backends

import (
	"os"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gomlx/milscope/internal/fsutil"
)

// Config is the document accepted by LoadConfig: the list of backends to
// register on top of the built-in ones.
type Config struct {
	Backends []Backend `yaml:"backends"`
}

// MILSCOPE_BACKENDS is the environment variable with the path of a YAML
// backends configuration file to load at start up, if set.
//
// See LoadConfig for the file format.
const MILSCOPE_BACKENDS = "MILSCOPE_BACKENDS"

// LoadDefaultConfig loads the backends configuration file pointed to by the
// MILSCOPE_BACKENDS environment variable. It is a no-op if the variable is
// not set.
func LoadDefaultConfig() error {
	configPath, found := os.LookupEnv(MILSCOPE_BACKENDS)
	if !found || configPath == "" {
		return nil
	}
	return LoadConfig(configPath)
}

// LoadConfig reads the YAML backends configuration file at configPath and
// registers every backend listed in it, overriding same-ID registrations.
//
// Example of a configuration adding a hypothetical backend and recoloring the
// Neural Engine:
//
//	backends:
//	  - id: npu_next
//	    column: NPU
//	    color: "212"
//	  - id: ane
//	    column: ANE
//	    color: "135"
func LoadConfig(configPath string) error {
	configPath, err := fsutil.ReplaceTildeInDir(configPath)
	if err != nil {
		return err
	}
	contents, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read backends configuration from %q", configPath)
	}
	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return errors.Wrapf(err, "failed to parse backends configuration %q", configPath)
	}
	for ii, backend := range config.Backends {
		err := exceptions.TryCatch[error](func() { Register(backend) })
		if err != nil {
			return errors.WithMessagef(err, "backends configuration %q, entry #%d", configPath, ii)
		}
	}
	return nil
}
