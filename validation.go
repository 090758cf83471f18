package reacton

import (
	"fmt"

	"github.com/sitharaj88/reacton/pkg/meta"
	"github.com/sitharaj88/reacton/pkg/schema"
)

// WithValidation installs an interceptor that runs every incoming write
// through s before it is committed. A failed validation vetoes the write
// and the Source keeps its previous value (spec §4.3's "veto" contract).
func WithValidation(s schema.Schema) NodeOption {
	return WithInterceptor(func(ref *Ref, newValue any) (any, error) {
		validated, err := s.Validate(newValue)
		if err != nil {
			return nil, fmt.Errorf("reacton: %s failed validation: %w", ref.Name(), err)
		}
		return validated, nil
	})
}

// WithMeta attaches debug/tooling metadata to a node's Ref, readable back
// via Ref.Meta. It never participates in propagation or equality.
func WithMeta(key string, value any) NodeOption {
	return func(e *entry) {
		if e.ref.meta == nil {
			e.ref.meta = make(map[string]any)
		}
		meta.Set(e.ref.meta, key, value)
	}
}
