package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles - osu! theme
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(OsuPink).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(OsuPurple).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(OsuPurple).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(OsuPink).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(OsuBlue).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(SlateGray).
				Italic(true)
)

// flagGroups orders the flag sections. Flags tagged with an unknown group
// are listed after these, under the group key.
var flagGroups = []struct {
	key   string
	title string
}{
	{"", "Flags"},
	{"render", "Render"},
	{"api", "osu! API"},
	{"output", "Output"},
}

// settingsKeys documents config.json. flag names the CLI flag that
// overrides the key, if any.
var settingsKeys = []struct {
	key  string
	help string
	flag string
}{
	{"comment", "text along the bottom edge", "comment"},
	{"pearkText", "highlight label next to the score panel", ""},
	{"displayPeark", "label colour: 0 FC, 1 miss, 2 slider break, 3 other", ""},
	{"filename", "output PNG path", "output"},
	{"accent", "hex accent colour instead of the extracted one", ""},
	{"pp", "fixed performance value instead of an API lookup", ""},
	{"fallbackBackground", "image used when the cover cannot be downloaded", ""},
}

// helpArg is a positional argument as shown in help.
type helpArg struct {
	name       string
	help       string
	defaultVal string
	optional   bool
}

// helpFlag is a flag as shown in help.
type helpFlag struct {
	name       string
	flags      string
	help       string
	defaultVal string
	group      string
	envs       []string
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling
func StyledHelpPrinter(options kong.HelpOptions) kong.HelpPrinter {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		node := ctx.Model.Node
		fmt.Fprint(ctx.Stdout, renderHelp(ctx.Model.Name, collectArguments(node), collectFlags(node)))
		return nil
	}
}

func renderHelp(name string, args []helpArg, flags []helpFlag) string {
	var sb strings.Builder

	sb.WriteString(helpTitleStyle.Render(AppName))
	sb.WriteString("\n")
	sb.WriteString(helpDescStyle.Render(AppDescription))
	sb.WriteString("\n")

	sb.WriteString(helpSectionStyle.Render("Usage:"))
	sb.WriteString("\n  ")
	sb.WriteString(usage(name, args))
	sb.WriteString("\n")

	if len(args) > 0 {
		writeSection(&sb, "Arguments")
		for _, arg := range args {
			sb.WriteString("  ")
			sb.WriteString(helpArgStyle.Render("<" + arg.name + ">"))
			sb.WriteString("  ")
			sb.WriteString(arg.help)
			writeDefault(&sb, arg.defaultVal)
			sb.WriteString("\n")
		}
	}

	for _, group := range groupFlags(flags) {
		writeSection(&sb, group.title)
		for _, f := range group.flags {
			sb.WriteString("  ")
			sb.WriteString(helpFlagStyle.Render(f.flags))
			if f.help != "" {
				sb.WriteString("  ")
				sb.WriteString(f.help)
			}
			writeDefault(&sb, f.defaultVal)
			sb.WriteString("\n")
		}
	}

	var env []helpFlag
	for _, f := range flags {
		if len(f.envs) > 0 {
			env = append(env, f)
		}
	}
	if len(env) > 0 {
		writeSection(&sb, "Environment")
		for _, f := range env {
			for _, e := range f.envs {
				fmt.Fprintf(&sb, "  %s  used when --%s is not given\n", helpArgStyle.Render("$"+e), f.name)
			}
		}
	}

	writeSettings(&sb, flags)
	sb.WriteString("\n")
	return sb.String()
}

// usage builds the usage line from the positional arguments.
func usage(name string, args []helpArg) string {
	parts := []string{name}
	for _, arg := range args {
		if arg.optional {
			parts = append(parts, "[<"+arg.name+">]")
		} else {
			parts = append(parts, "<"+arg.name+">")
		}
	}
	return strings.Join(append(parts, "[flags]"), " ")
}

// writeSettings documents the settings file, naming the file from the
// --config default when there is one.
func writeSettings(sb *strings.Builder, flags []helpFlag) {
	path := "the settings file"
	known := make(map[string]bool, len(flags))
	for _, f := range flags {
		known[f.name] = true
		if f.name == "config" && f.defaultVal != "" {
			path = f.defaultVal
		}
	}
	if !known["config"] {
		return
	}

	writeSection(sb, "Settings")
	fmt.Fprintf(sb, "  Read from %s (--config), created with defaults when missing.\n", path)
	for _, s := range settingsKeys {
		sb.WriteString("  ")
		sb.WriteString(helpArgStyle.Render(s.key))
		sb.WriteString("  ")
		sb.WriteString(s.help)
		if s.flag != "" && known[s.flag] {
			sb.WriteString(" ")
			sb.WriteString(helpDefaultStyle.Render("(--" + s.flag + " overrides)"))
		}
		sb.WriteString("\n")
	}
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(title + ":"))
	sb.WriteString("\n")
}

func writeDefault(sb *strings.Builder, val string) {
	if val == "" {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(helpDefaultStyle.Render("(default: " + val + ")"))
}

type flagSection struct {
	title string
	flags []helpFlag
}

// groupFlags splits flags into sections in flagGroups order, dropping
// empty sections.
func groupFlags(flags []helpFlag) []flagSection {
	byGroup := make(map[string][]helpFlag)
	var extra []string
	for _, f := range flags {
		if _, seen := byGroup[f.group]; !seen && !isKnownGroup(f.group) {
			extra = append(extra, f.group)
		}
		byGroup[f.group] = append(byGroup[f.group], f)
	}

	var sections []flagSection
	for _, g := range flagGroups {
		if len(byGroup[g.key]) > 0 {
			sections = append(sections, flagSection{title: g.title, flags: byGroup[g.key]})
		}
	}
	for _, key := range extra {
		sections = append(sections, flagSection{title: key, flags: byGroup[key]})
	}
	return sections
}

func isKnownGroup(key string) bool {
	for _, g := range flagGroups {
		if g.key == key {
			return true
		}
	}
	return false
}

func collectArguments(node *kong.Node) []helpArg {
	var args []helpArg
	for _, arg := range node.Positional {
		args = append(args, helpArg{
			name:       arg.Name,
			help:       arg.Help,
			defaultVal: arg.Default,
			optional:   !arg.Required,
		})
	}
	return args
}

func collectFlags(node *kong.Node) []helpFlag {
	flags := []helpFlag{{
		name:  "help",
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	}}

	for _, f := range node.Flags {
		if f.Name == "help" {
			continue
		}

		flagStr := "--" + f.Name
		if f.Short != 0 {
			flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() {
			placeholder := f.PlaceHolder
			if placeholder == "" {
				placeholder = strings.ReplaceAll(f.Name, "-", "_")
			}
			flagStr += "=" + strings.ToUpper(placeholder)
		}

		defaultVal := ""
		if f.HasDefault && !f.IsBool() {
			defaultVal = f.Default
		}

		group := ""
		if f.Group != nil {
			group = f.Group.Key
		}

		flags = append(flags, helpFlag{
			name:       f.Name,
			flags:      flagStr,
			help:       f.Help,
			defaultVal: defaultVal,
			group:      group,
			envs:       f.Envs,
		})
	}
	return flags
}
