package providers

import (
	"fmt"

	"webscout"
)

var constructors = map[string]func(Options) (webscout.Provider, error){
	"akash":       func(o Options) (webscout.Provider, error) { return NewAkashGPT(o) },
	"bagoodex":    func(o Options) (webscout.Provider, error) { return NewBagoodex(o) },
	"blackbox":    func(o Options) (webscout.Provider, error) { return NewBlackbox(o) },
	"cerebras":    func(o Options) (webscout.Provider, error) { return NewCerebras(o) },
	"deepinfra":   func(o Options) (webscout.Provider, error) { return NewDeepinfra(o) },
	"deepseek":    func(o Options) (webscout.Provider, error) { return NewDeepSeek(o) },
	"electronhub": func(o Options) (webscout.Provider, error) { return NewElectronHub(o) },
	"flowith":     func(o Options) (webscout.Provider, error) { return NewFlowith(o) },
	"freeaichat":  func(o Options) (webscout.Provider, error) { return NewFreeAIChat(o) },
	"glider":      func(o Options) (webscout.Provider, error) { return NewGlider(o) },
	"groq":        func(o Options) (webscout.Provider, error) { return NewGroq(o) },
	"huggingface": func(o Options) (webscout.Provider, error) { return NewHuggingFaceChat(o) },
	"labyrinth":   func(o Options) (webscout.Provider, error) { return NewLabyrinth(o) },
	"leo":         func(o Options) (webscout.Provider, error) { return NewLeo(o) },
	"llama":       func(o Options) (webscout.Provider, error) { return NewLlama(o) },
	"mhystical":   func(o Options) (webscout.Provider, error) { return NewMhystical(o) },
	"minitool":    func(o Options) (webscout.Provider, error) { return NewMinitool(o) },
	"ollama":      func(o Options) (webscout.Provider, error) { return NewOllama(o) },
	"ooai":        func(o Options) (webscout.Provider, error) { return NewOOAi(o) },
	"opengpt":     func(o Options) (webscout.Provider, error) { return NewOpenGPT(o) },
	"talkai":      func(o Options) (webscout.Provider, error) { return NewTalkAI(o) },
	"typegpt":     func(o Options) (webscout.Provider, error) { return NewTypeGPT(o) },
	"uncovr":      func(o Options) (webscout.Provider, error) { return NewUncovrAI(o) },
	"venice":      func(o Options) (webscout.Provider, error) { return NewVenice(o) },
	"wisecat":     func(o Options) (webscout.Provider, error) { return NewWiseCat(o) },
	"xjai":        func(o Options) (webscout.Provider, error) { return NewXjai(o) },
	"yep":         func(o Options) (webscout.Provider, error) { return NewYep(o) },
}

// New builds a provider by registry name.
func New(name string, opts Options) (webscout.Provider, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("provider %q: unknown name", name)
	}
	return ctor(opts)
}
