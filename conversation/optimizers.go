package conversation

import (
	"fmt"
	"os"
	"runtime"
	"sort"
)

// An Optimizer rewrites a prompt before dispatch.
type Optimizer func(prompt string) string

var optimizers = map[string]Optimizer{
	"code":          Coder,
	"coder":         Coder,
	"shell_command": func(p string) string { return Coder("!" + p) },
	"search":        Search,
	"math":          Math,
	"explain":       Explain,
	"debug":         Debug,
	"api":           API,
	"sql":           SQL,
	"regex":         Regex,
	"test":          TestCases,
	"docker":        Docker,
	"git":           Git,
	"yaml":          YAML,
	"cli":           CLI,
	"refactor":      Refactor,
	"security":      Security,
}

// OptimizerNames enumerates the registered optimizers, sorted.
func OptimizerNames() []string {
	names := make([]string, 0, len(optimizers))
	for name := range optimizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupOptimizer resolves a rewriter by name.
func LookupOptimizer(name string) (Optimizer, bool) {
	opt, ok := optimizers[name]
	return opt, ok
}

func hostPlatform() (osName, shell string) {
	switch runtime.GOOS {
	case "windows":
		osName = "Windows"
		shell = "cmd.exe"
		if os.Getenv("PSModulePath") != "" {
			shell = "powershell.exe"
		}
	case "darwin":
		osName = "MacOS"
		shell = "/bin/sh"
	case "linux":
		osName = "Linux"
		shell = "/bin/sh"
	default:
		osName = runtime.GOOS
		shell = "/bin/sh"
	}
	if runtime.GOOS != "windows" {
		if env := os.Getenv("SHELL"); env != "" {
			shell = env
		}
	}
	return osName, shell
}

// Coder rewraps the prompt as a bare code/command request. A prompt starting
// with '!' asks for a shell command targeted at the host platform.
func Coder(prompt string) string {
	osName, shell := hostPlatform()
	return fmt.Sprintf(`<system_context>
        <role>
          Your Role: You are a code generation expert. Analyze the request and provide appropriate output.
          If the request starts with '!' or involves system/shell operations, provide a shell command.
          Otherwise, provide Python code.
        </role>
        <rules>
           RULES:
             - Provide ONLY code/command output without any description or markdown
             - For shell commands:
                 - Target OS: %s
                 - Shell: %s
                 - Combine multiple steps when possible
             - For Python code:
                - Include necessary imports
                - Handle errors appropriately
                - Follow PEP 8 style
             - If details are missing, use most logical implementation
             - No warnings, descriptions, or explanations
        </rules>
        <request>
             Request: %s
        </request>
        <output>
            Output:
        </output>
</system_context>`, osName, shell, prompt)
}

// Search rewraps the prompt as a web search query request.
func Search(prompt string) string {
	return fmt.Sprintf(`<system_context>
  <role>
    Your role: Generate a precise and focused web search query.
  </role>
  <instructions>
    IMPORTANT: Return only the search query without any explanation.
    Format: Plain text, no markdown.
    If details are missing, focus on the most relevant aspects.
  </instructions>
 <request>
    Request: %s
 </request>
 <output>
    Search Query:
 </output>
 </system_context>`, prompt)
}

// Math rewraps the prompt as a step-by-step problem request.
func Math(prompt string) string {
	return fmt.Sprintf(`<system_context>
  <role>
     Your role: Solve mathematical problems step by step.
  </role>
  <instructions>
    Format: Plain text, show calculations clearly.
    Show all steps and intermediate results.
    Include units where applicable.
    Provide final answer in a clear format.
  </instructions>
 <request>
     Problem: %s
  </request>
 <output>
     Solution:
  </output>
 </system_context>`, prompt)
}

// Explain rewraps the prompt as a plain-terms explanation request.
func Explain(prompt string) string {
	return fmt.Sprintf(`<system_context>
  <role>
     Your role: Explain concepts clearly and concisely.
  </role>
  <instructions>
    Format: Break down complex ideas into simple terms.
    Use analogies where helpful.
    Focus on key points and practical understanding.
  </instructions>
   <topic>
     Topic: %s
    </topic>
  <output>
    Explanation:
 </output>
</system_context>`, prompt)
}

// Debug rewraps the prompt as a debugging request.
func Debug(prompt string) string {
	return fmt.Sprintf(`<system_context>
  <role>
     Your role: Debug code and identify issues.
  </role>
  <instructions>
    Steps:
     - Identify syntax errors
     - Check logic issues
     - Look for common pitfalls
     - Suggest fixes
  </instructions>
  <input>
     Code to debug: %s
  </input>
 <output>
   Analysis:
 </output>
</system_context>`, prompt)
}

// API rewraps the prompt as a REST endpoint design request.
func API(prompt string) string {
	return fmt.Sprintf(`<system_context>
  <role>
   Your role: Design RESTful API endpoints.
  </role>
  <instructions>
     Include:
      - HTTP methods
      - URL structure
      - Request/Response format
      - Status codes
   </instructions>
    <input>
        API requirement: %s
    </input>
    <output>
        Design:
    </output>
</system_context>`, prompt)
}

// SQL rewraps the prompt as a query generation request.
func SQL(prompt string) string {
	return fmt.Sprintf(`<system_context>
   <role>
      Your role: Generate optimized SQL queries.
   </role>
   <instructions>
        Requirements:
        - Standard SQL syntax
        - Efficient query structure
        - Proper joins and indexing
        - Consider performance
    </instructions>
    <input>
        Query need: %s
    </input>
  <output>
        SQL:
   </output>
</system_context>`, prompt)
}

// Regex rewraps the prompt as a pattern generation request.
func Regex(prompt string) string {
	return fmt.Sprintf(`<system_context>
    <role>
     Your role: Generate precise regex patterns.
    </role>
   <instructions>
        Requirements:
        - Standard regex syntax
        - Pattern explanation
        - Test cases
        - Consider edge cases
    </instructions>
    <input>
        Pattern need: %s
    </input>
   <output>
         Regex:
     </output>
</system_context>`, prompt)
}

// TestCases rewraps the prompt as a test generation request.
func TestCases(prompt string) string {
	return fmt.Sprintf(`<system_context>
  <role>
     Your role: Generate comprehensive test cases.
  </role>
   <instructions>
        Include:
        - Edge cases
        - Corner cases
        - Error scenarios
        - Happy path
        Format: Test name and expected result
   </instructions>
   <input>
      Test requirement: %s
    </input>
    <output>
      Test Cases:
   </output>
</system_context>`, prompt)
}

// Docker rewraps the prompt as a Dockerfile request.
func Docker(prompt string) string {
	return fmt.Sprintf(`<system_context>
  <role>
     Your role: Create efficient Dockerfile.
  </role>
    <instructions>
        Consider:
        - Base image selection
        - Layer optimization
        - Security best practices
        - Multi-stage builds if needed
    </instructions>
    <input>
      Container requirement: %s
    </input>
   <output>
      Dockerfile:
   </output>
</system_context>`, prompt)
}

// Git rewraps the prompt as a git command request.
func Git(prompt string) string {
	return fmt.Sprintf(`<system_context>
   <role>
    Your role: Generate git commands.
  </role>
   <instructions>
        Requirements:
        - Clear and safe commands
        - Consider current state
        - Include safety checks
        - Best practices
    </instructions>
    <input>
     Git task: %s
    </input>
   <output>
    Command:
   </output>
</system_context>`, prompt)
}

// YAML rewraps the prompt as a configuration generation request.
func YAML(prompt string) string {
	return fmt.Sprintf(`<system_context>
    <role>
     Your role: Generate YAML configuration.
    </role>
   <instructions>
        Requirements:
        - Valid YAML syntax
        - Clear structure
        - Comments for complex parts
        - Best practices
   </instructions>
   <input>
     Config need: %s
    </input>
  <output>
    YAML:
  </output>
</system_context>`, prompt)
}

// CLI rewraps the prompt as a command design request.
func CLI(prompt string) string {
	return fmt.Sprintf(`<system_context>
    <role>
         Your role: Design CLI commands.
    </role>
   <instructions>
        Include:
          - Command structure
          - Arguments/options
          - Help messages
          - Examples
    </instructions>
  <input>
     CLI requirement: %s
    </input>
  <output>
      Design:
   </output>
</system_context>`, prompt)
}

// Refactor rewraps the prompt as an improvement request.
func Refactor(prompt string) string {
	return fmt.Sprintf(`<system_context>
    <role>
         Your role: Suggest code improvements.
   </role>
    <instructions>
        Focus on:
        - Code quality
        - Performance
        - Readability
        - Best practices
        - Design patterns
    </instructions>
    <input>
        Code to refactor: %s
     </input>
   <output>
        Suggestions:
    </output>
</system_context>`, prompt)
}

// Security rewraps the prompt as a vulnerability analysis request.
func Security(prompt string) string {
	return fmt.Sprintf(`<system_context>
   <role>
        Your role: Security analysis and fixes.
   </role>
   <instructions>
        Check for:
        - Common vulnerabilities
        - Security best practices
        - Input validation
        - Authentication/Authorization
        - Data protection
    </instructions>
     <input>
       Code to analyze: %s
    </input>
  <output>
        Analysis:
  </output>
</system_context>`, prompt)
}
