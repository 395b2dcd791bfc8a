// Package conversation manages stateful prompt composition: a fixed intro,
// a rolling history of user/assistant turns bounded by a character budget,
// and the optimizer and act-library hooks applied before dispatch.
package conversation

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// DefaultIntro is the system preamble used when neither an act nor a custom
// intro is supplied.
const DefaultIntro = "You're a Large Language Model for chatting with people. " +
	"Assume role of the LLM and give your response."

const (
	// DefaultHistoryOffset bounds the serialized intro+history length.
	DefaultHistoryOffset = 10250
	// promptAllowance is extra slack cut beyond the overflow when trimming.
	promptAllowance = 10
)

// Turn is one completed user/assistant exchange. Immutable once appended.
type Turn struct {
	User      string
	Assistant string
}

// Conversation holds per-provider session history. The zero value is not
// usable; construct with New.
type Conversation struct {
	mu sync.Mutex

	// Intro is the system preamble prefixed to every assembled prompt.
	Intro string

	active        bool
	maxTokens     int
	historyOffset int
	turns         []Turn

	filepath   string
	updateFile bool
}

// New builds a conversation manager. When active is false,
// GenCompletePrompt returns the bare prompt and Update is a no-op. A
// non-empty filepath loads prior history from the file (first line intro,
// then turn blocks) and, with updateFile, appends each new exchange.
func New(active bool, maxTokens int, filepath string, updateFile bool) (*Conversation, error) {
	c := &Conversation{
		Intro:         DefaultIntro,
		active:        active,
		maxTokens:     maxTokens,
		historyOffset: DefaultHistoryOffset,
		filepath:      filepath,
		updateFile:    updateFile,
	}
	if filepath != "" {
		if err := c.load(filepath); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SetHistoryOffset replaces the character budget for retained history.
func (c *Conversation) SetHistoryOffset(offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if offset > 0 {
		c.historyOffset = offset
	}
	c.trimLocked()
}

// Active reports whether history is being accumulated.
func (c *Conversation) Active() bool {
	return c.active
}

// Turns returns a copy of the retained history pairs, oldest first.
func (c *Conversation) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// renderTurn serializes one exchange in the history wire format.
func renderTurn(user, assistant string) string {
	return fmt.Sprintf("\nUser : %s\nLLM :%s", user, assistant)
}

func (c *Conversation) renderedLocked() string {
	var b strings.Builder
	for _, t := range c.turns {
		b.WriteString(renderTurn(t.User, t.Assistant))
	}
	return b.String()
}

// GenCompletePrompt assembles intro + retained history + the new user turn.
// It is pure with respect to conversation state: no mutation, no trimming
// side effects beyond what Update already enforced.
func (c *Conversation) GenCompletePrompt(prompt string) string {
	if !c.active {
		return prompt
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	intro := c.Intro
	if intro == "" {
		intro = DefaultIntro
	}
	history := c.renderedLocked() + renderTurn(prompt, "")

	// Same budget rule as Update, applied to the candidate prompt: drop
	// oldest pairs until intro+history fits.
	budget := c.historyOffset - c.maxTokens
	trimmed := false
	turns := c.turns
	for len(turns) > 0 && len(intro)+len(history) > budget+promptAllowance {
		turns = turns[1:]
		trimmed = true
		history = renderTurns(turns) + renderTurn(prompt, "")
	}
	if trimmed {
		history = "... " + history
	}
	return intro + history
}

func renderTurns(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(renderTurn(t.User, t.Assistant))
	}
	return b.String()
}

// Update appends one completed exchange and trims the history from the
// front until the budget is met. It is the only mutator.
func (c *Conversation) Update(prompt, response string) error {
	if !c.active {
		return nil
	}
	c.mu.Lock()
	c.turns = append(c.turns, Turn{User: prompt, Assistant: response})
	c.trimLocked()
	c.mu.Unlock()

	if c.filepath != "" && c.updateFile {
		return c.appendToFile(prompt, response)
	}
	return nil
}

// trimLocked drops oldest pairs until serialized intro+history is within
// the offset. At most one pair of slack may remain beyond the budget.
func (c *Conversation) trimLocked() {
	intro := c.Intro
	for len(c.turns) > 1 && len(intro)+len(c.renderedLocked()) > c.historyOffset {
		c.turns = c.turns[1:]
	}
}

func (c *Conversation) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Fresh history file; created on first update.
			return nil
		}
		return fmt.Errorf("load conversation %q: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 2<<20)

	first := true
	var user string
	var haveUser bool
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if line != "" {
				c.Intro = line
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, "User : "):
			user = strings.TrimPrefix(line, "User : ")
			haveUser = true
		case strings.HasPrefix(line, "LLM :") && haveUser:
			c.turns = append(c.turns, Turn{User: user, Assistant: strings.TrimPrefix(line, "LLM :")})
			haveUser = false
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("load conversation %q: %w", path, err)
	}
	c.trimLocked()
	return nil
}

func (c *Conversation) appendToFile(prompt, response string) error {
	if _, err := os.Stat(c.filepath); os.IsNotExist(err) {
		if err := os.WriteFile(c.filepath, []byte(c.Intro+"\n"), 0o644); err != nil {
			return fmt.Errorf("create conversation file: %w", err)
		}
	}
	f, err := os.OpenFile(c.filepath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append conversation file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(renderTurn(prompt, response)); err != nil {
		return fmt.Errorf("append conversation file: %w", err)
	}
	return nil
}
