package core

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	// DefaultPrompt is shown when no prompt is configured.
	DefaultPrompt = ">>> "
	// DefaultColorPrompt is a bash style prompt shown instead of
	// DefaultPrompt when color is enabled.
	DefaultColorPrompt = `\033[01;32m\u@\h\033[00m:\033[01;34m\w\033[00m\$ `
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\a`, "\a", // alert
		`\e`, "\033", // escape
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string([]byte{byte(out)})
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string([]byte{byte(out)})
	})
	return s
}

// Prompt renders a prompt template. It replaces \u with the user, \h with the
// host name, \w with the working directory and \$ with # for root or $ for
// everyone else, then interprets escape sequences.
func (s *Shell) Prompt(template string) string {
	if template == "" {
		template = DefaultPrompt
		if s.color {
			template = DefaultColorPrompt
		}
	}

	prompt := strings.ReplaceAll(template, `\u`, s.env.Getenv(EnvUser))
	prompt = strings.ReplaceAll(prompt, `\h`, s.env.Getenv(EnvHostname))

	pwd := s.dir
	home := s.env.Getenv(EnvHome)
	if home != "" && home != "/" && (pwd == home || strings.HasPrefix(pwd, home+"/")) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if unix.Geteuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return unescape(prompt)
}
