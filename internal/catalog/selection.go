package catalog

// ModelSelection tracks one provider/model choice (the writer or the critic).
//
// Selecting a provider whose model list has not loaded yet leaves the model
// empty; Apply assigns the list's first entry once it arrives. An explicit
// user choice is sticky across catalog refreshes and is forgotten only when
// the provider changes.
type ModelSelection struct {
	provider string
	model    string
	explicit bool
}

func NewModelSelection(provider string) ModelSelection {
	return ModelSelection{provider: provider}
}

func (s *ModelSelection) Provider() string { return s.provider }

func (s *ModelSelection) Model() string { return s.model }

// SetProvider switches providers. The reset of the explicit choice is keyed
// to this change, never to a catalog refresh.
func (s *ModelSelection) SetProvider(provider string) {
	if provider == s.provider {
		return
	}
	s.provider = provider
	s.model = ""
	s.explicit = false
}

// Choose records an explicit model selection for the current provider.
func (s *ModelSelection) Choose(model string) {
	s.model = model
	s.explicit = true
}

// Apply resolves the deferred default against a (possibly refreshed) model
// catalog: the first listed model for the current provider, unless the user
// already chose one explicitly.
func (s *ModelSelection) Apply(models map[string][]ModelOption) {
	if s.explicit {
		return
	}
	list := models[s.provider]
	if len(list) == 0 {
		return
	}
	s.model = list[0].ID
}
