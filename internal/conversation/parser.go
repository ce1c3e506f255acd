// Package conversation reads cook-mode commands typed at a prompt and
// prints messages back to the cook.
package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/recipeplus/internal/logger"
)

// CommandType is what the cook asked for.
type CommandType int

const (
	CmdUnknown CommandType = iota
	CmdNext
	CmdBack
	CmdGoto
	CmdRepeat
	CmdTimers
	CmdHelp
	CmdQuit
)

func (c CommandType) String() string {
	switch c {
	case CmdNext:
		return "next"
	case CmdBack:
		return "back"
	case CmdGoto:
		return "goto"
	case CmdRepeat:
		return "repeat"
	case CmdTimers:
		return "timers"
	case CmdHelp:
		return "help"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Command is a parsed line. Step is set for CmdGoto.
type Command struct {
	Type CommandType
	Step int
	Raw  string
}

// Parser matches typed lines to commands using keywords and simple patterns.
type Parser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex *regexp.Regexp
	cmd   CommandType
}

var gotoPattern = regexp.MustCompile(`(?i)^(?:goto|go to|step|g)\s*([0-9]+)$`)

// NewParser creates a keyword-based command parser.
func NewParser(log *logger.Logger) *Parser {
	p := &Parser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(next|n|done|continue|→|>)$`), CmdNext},
		{regexp.MustCompile(`(?i)^(back|prev|previous|b|←|<)$`), CmdBack},
		{regexp.MustCompile(`(?i)^(repeat|again|r|what\??)$`), CmdRepeat},
		{regexp.MustCompile(`(?i)^(timers|timer|t)$`), CmdTimers},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), CmdHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|stop|q)$`), CmdQuit},
	}
	return p
}

// Parse converts a typed line into a command. An empty line means next,
// so pressing enter walks the recipe.
func (p *Parser) Parse(input string) Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Type: CmdNext}
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number jumps to that step.
	if n, err := strconv.Atoi(trimmed); err == nil {
		return Command{Type: CmdGoto, Step: n, Raw: trimmed}
	}
	if m := gotoPattern.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		return Command{Type: CmdGoto, Step: n, Raw: trimmed}
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched command: %s", rule.cmd)
			return Command{Type: rule.cmd, Raw: trimmed}
		}
	}

	p.log.Debug("no match, returning unknown command")
	return Command{Type: CmdUnknown, Raw: trimmed}
}

// Help lists the commands Parse understands.
const Help = `  next, n, enter   go to the next step
  back, b          go to the previous step
  goto N, N        jump to step N
  repeat, r        show the current step again
  timers, t        list the timers in this step
  help, h, ?       show this help
  quit, q          stop cooking`
