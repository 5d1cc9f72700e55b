package correction

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
)

// File is the on-disk layout:
//
//	version: 1
//	corrections:
//	  - kind: rename
//	    table: customers
//	    id: 7f0c...
//	    name: Kim Minsu
type File struct {
	Version     int         `yaml:"version"`
	Corrections []yaml.Node `yaml:"corrections"`
}

func LoadFile(path string) ([]Correction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates every entry. One bad entry rejects the whole
// list, so nothing is applied from a half-valid file.
func Load(r io.Reader) ([]Correction, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse corrections YAML: %w", err)
	}

	out := make([]Correction, 0, len(file.Corrections))
	for i := range file.Corrections {
		c, err := decode(&file.Corrections[i])
		if err != nil {
			return nil, fmt.Errorf("entry %d (line %d): %w", i, file.Corrections[i].Line, err)
		}
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("entry %d (line %d): %w", i, file.Corrections[i].Line, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func decode(node *yaml.Node) (Correction, error) {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}

	switch head.Kind {
	case KindRename:
		var c Rename
		err := node.Decode(&c)
		return c, err
	case KindForceFlag:
		var c ForceFlag
		err := node.Decode(&c)
		return c, err
	case KindSplit:
		var c Split
		err := node.Decode(&c)
		return c, err
	case KindDelete:
		var c Delete
		err := node.Decode(&c)
		return c, err
	default:
		return nil, apperr.Errorf(apperr.CodeInvalidCorrection, "unknown kind %q", head.Kind)
	}
}
