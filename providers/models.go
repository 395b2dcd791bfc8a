package providers

import "sort"

// registry maps provider names to their model rosters. Static; consulting
// it never touches the network.
var registry = map[string][]string{
	"akash":       AkashGPTModels,
	"bagoodex":    BagoodexModels,
	"blackbox":    BlackboxModels,
	"cerebras":    CerebrasModels,
	"deepinfra":   DeepinfraModels,
	"deepseek":    DeepSeekModels,
	"electronhub": ElectronHubModels,
	"flowith":     FlowithModels,
	"freeaichat":  FreeAIChatModels,
	"glider":      GliderModels,
	"groq":        GroqModels,
	"huggingface": HuggingFaceChatModels,
	"labyrinth":   LabyrinthModels,
	"leo":         LeoModels,
	"llama":       LlamaModels,
	"mhystical":   MhysticalModels,
	"minitool":    MinitoolModels,
	"ollama":      OllamaModels,
	"ooai":        OOAiModels,
	"opengpt":     OpenGPTModels,
	"talkai":      TalkAIModels,
	"typegpt":     TypeGPTModels,
	"uncovr":      UncovrAIModels,
	"venice":      VeniceModels,
	"wisecat":     WiseCatModels,
	"xjai":        XjaiModels,
	"yep":         YepModels,
}

// Names lists the registered provider names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllModels returns the full provider-to-roster map as a copy.
func AllModels() map[string][]string {
	out := make(map[string][]string, len(registry))
	for name, models := range registry {
		cp := make([]string, len(models))
		copy(cp, models)
		out[name] = cp
	}
	return out
}

// ModelsFor returns the roster for one provider.
func ModelsFor(name string) ([]string, bool) {
	models, ok := registry[name]
	if !ok {
		return nil, false
	}
	cp := make([]string, len(models))
	copy(cp, models)
	return cp, true
}
