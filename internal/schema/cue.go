package schema

import (
	"fmt"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadCUE loads a schema from a CUE file. The file must evaluate to a
// concrete value with a "blocks" list matching the Schema shape; CUE's own
// constraint language can build it, as long as the result is concrete.
func LoadCUE(path string) (*Schema, error) {
	instances := load.Instances([]string{path}, nil)
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instance loaded from %s", path)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE schema: %w", inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE schema: %w", err)
	}

	var s Schema
	if err := value.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding CUE schema: %w", err)
	}

	if err := validateLoaded(&s); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return &s, nil
}
