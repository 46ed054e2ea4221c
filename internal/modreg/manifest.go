package modreg

import (
	"fmt"
	"os"

	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/tstypes"
	"gopkg.in/yaml.v3"
)

// Manifest is a project-level prelude extension (SPEC_FULL.md §A.2/§B):
// a `.tensorscript/prelude.yaml` file listing extra module methods a
// project wants type-checked without writing Go, e.g. a custom activation
// or a project-specific layer's forward signature.
type Manifest struct {
	Ops []OpSpec `yaml:"ops"`
}

// OpSpec describes one extra (module, method) registration. Kind selects
// which of the shape templates above to instantiate; it intentionally
// covers only the shapes this registry already knows how to build
// generically (shape-preserving unary/binary, and reduce-to-FLOAT) — anything needing bespoke
// shape arithmetic (like Conv2d.forward) still belongs in builtins.go,
// not in a YAML file.
type OpSpec struct {
	Module string `yaml:"module"`
	Method string `yaml:"method"`
	Kind   string `yaml:"kind"` // "unary" | "binary" | "reduce"
}

// LoadManifest reads and parses a prelude manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modreg: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("modreg: parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Apply registers every op in the manifest against r, returning an error if
// any entry names an unsupported Kind.
func (r *Registry) Apply(m *Manifest) error {
	for _, op := range m.Ops {
		switch op.Kind {
		case "unary":
			r.Register(op.Module, op.Method, shapePreservingUnary(op.Module, op.Method))
		case "binary":
			r.Register(op.Module, op.Method, shapePreservingBinary(op.Module, op.Method))
		case "reduce":
			r.Register(op.Module, op.Method, buildReduce(op.Module, op.Method))
		default:
			return fmt.Errorf("modreg: manifest entry %s.%s: unknown kind %q", op.Module, op.Method, op.Kind)
		}
	}
	return nil
}

// buildReduce models a reduction op: one fresh-shaped tensor in, a scalar
// FLOAT out (e.g. a custom loss or summary statistic).
func buildReduce(module, name string) Builder {
	return func(env *tsenv.TypeEnv) *tstypes.FUN {
		sp := env.FreshSpan()
		v := env.FreshVar(sp)
		return fn(module, name, []tstypes.FnArg{arg("x", v)}, tstypes.NewFloat(sp))
	}
}
