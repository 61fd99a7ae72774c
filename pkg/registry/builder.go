package registry

// RegistryBuilder provides the fluent construction pattern: register every
// component up front, then Build to run initialize_all in one step.
type RegistryBuilder struct {
	registry *ComponentRegistry
	err      error
}

func NewRegistryBuilder(log Logger) *RegistryBuilder {
	return &RegistryBuilder{registry: NewComponentRegistry(log)}
}

// WithComponent registers c, short-circuiting if a prior registration
// already failed.
func (b *RegistryBuilder) WithComponent(c Component) *RegistryBuilder {
	if b.err != nil {
		return b
	}
	b.err = b.registry.Register(c)
	return b
}

func (b *RegistryBuilder) ComponentCount() int { return b.registry.Count() }

// Build registers-checks and runs InitializeAll, returning the ready
// registry.
func (b *RegistryBuilder) Build() (*ComponentRegistry, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.registry.InitializeAll(); err != nil {
		return nil, err
	}
	return b.registry, nil
}

// BuildWithoutInit returns the registry without running InitializeAll, for
// callers that manage initialization timing themselves (tests, mostly).
func (b *RegistryBuilder) BuildWithoutInit() (*ComponentRegistry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.registry, nil
}
