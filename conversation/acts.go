package conversation

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"webscout"
)

// Built-in act presets, a compiled subset of the awesome-prompts library.
// LoadActs merges a caller-supplied YAML file over these.
var builtinActs = map[string]string{
	"linux terminal":            "I want you to act as a linux terminal. I will type commands and you will reply with what the terminal should show. I want you to only reply with the terminal output inside one unique code block, and nothing else. Do not write explanations. Do not type commands unless I instruct you to do so.",
	"english translator":        "I want you to act as an English translator, spelling corrector and improver. I will speak to you in any language and you will detect the language, translate it and answer in the corrected and improved version of my text, in English. Keep the meaning same, but make them more literary.",
	"travel guide":              "I want you to act as a travel guide. I will write you my location and you will suggest a place to visit near my location. In some cases, I will also give you the type of places I will visit.",
	"storyteller":               "I want you to act as a storyteller. You will come up with entertaining stories that are engaging, imaginative and captivating for the audience. It can be fairy tales, educational stories or any other type of stories which has the potential to capture people's attention and imagination.",
	"software developer":        "I want you to act as a software developer. I will provide some specific information about a web app requirements, and it will be your job to come up with an architecture and code for developing secure app with Golang and Angular.",
	"interviewer":               "I want you to act as an interviewer. I will be the candidate and you will ask me the interview questions for the position. I want you to only reply as the interviewer. Do not write all the conservation at once. Ask me the questions and wait for my answers.",
	"math teacher":              "I want you to act as a math teacher. I will provide some mathematical equations or concepts, and it will be your job to explain them in easy-to-understand terms. This could include providing step-by-step instructions for solving a problem or demonstrating various techniques with visuals.",
	"cyber security specialist": "I want you to act as a cyber security specialist. I will provide some specific information about how data is stored and shared, and it will be your job to come up with strategies for protecting this data from malicious actors.",
	"motivational coach":        "I want you to act as a motivational coach. I will provide you with some information about someone's goals and challenges, and it will be your job to come up with strategies that can help this person achieve their goals.",
	"ux/ui developer":           "I want you to act as a UX/UI developer. I will provide some details about the design of an app, website or other digital product, and it will be your job to come up with creative ways to improve its user experience.",
}

var (
	actsMu sync.RWMutex
	acts   = func() map[string]string {
		m := make(map[string]string, len(builtinActs))
		for k, v := range builtinActs {
			m[k] = v
		}
		return m
	}()
)

// ActIntro resolves an act key to its intro text, case-insensitively.
// Returns webscout.ErrActNotFound for unknown keys.
func ActIntro(key string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(key))
	actsMu.RLock()
	defer actsMu.RUnlock()
	for name, intro := range acts {
		if strings.ToLower(name) == want {
			return intro, nil
		}
	}
	return "", fmt.Errorf("act %q: %w", key, webscout.ErrActNotFound)
}

// ActNames lists the available act keys, sorted.
func ActNames() []string {
	actsMu.RLock()
	defer actsMu.RUnlock()
	names := make([]string, 0, len(acts))
	for name := range acts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadActs merges act entries from a YAML file (flat name → intro mapping)
// over the built-in library.
func LoadActs(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load acts %q: %w", path, err)
	}
	var extra map[string]string
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return fmt.Errorf("parse acts %q: %w", path, err)
	}
	actsMu.Lock()
	defer actsMu.Unlock()
	for name, intro := range extra {
		acts[name] = intro
	}
	return nil
}
