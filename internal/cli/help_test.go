package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type helpTestCLI struct {
	ReplaysDir string `arg:"" name:"replays-dir" help:"Replay folder" default:"replays" optional:""`
	Config     string `help:"Settings file" default:"config.json"`
	Comment    string `help:"Comment text" group:"render"`
	APIKey     string `help:"API key" name:"api-key" env:"OSU_API_KEY" group:"api"`
	Output     string `help:"Output file" group:"output"`
	NoProgress bool   `help:"No progress" group:"output"`
}

func newHelpParser(t *testing.T, out *bytes.Buffer) *kong.Kong {
	t.Helper()
	var cli helpTestCLI
	parser, err := kong.New(&cli,
		kong.Name("osuthumb"),
		kong.Help(StyledHelpPrinter(kong.HelpOptions{Compact: true})),
		kong.Writers(out, out),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	return parser
}

func TestCollectFlags(t *testing.T) {
	parser := newHelpParser(t, &bytes.Buffer{})
	flags := collectFlags(parser.Model.Node)

	byName := make(map[string]helpFlag)
	for _, f := range flags {
		byName[f.name] = f
	}

	testCases := []struct {
		name        string
		wantFlags   string
		wantGroup   string
		wantDefault string
		wantEnvs    int
	}{
		{name: "help", wantFlags: "-h, --help"},
		{name: "config", wantFlags: "--config=CONFIG", wantDefault: "config.json"},
		{name: "comment", wantFlags: "--comment=COMMENT", wantGroup: "render"},
		{name: "api-key", wantFlags: "--api-key=API_KEY", wantGroup: "api", wantEnvs: 1},
		{name: "no-progress", wantFlags: "--no-progress", wantGroup: "output"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := byName[tc.name]
			if !ok {
				t.Fatalf("flag %q not collected", tc.name)
			}
			if f.flags != tc.wantFlags {
				t.Errorf("flags = %q, want %q", f.flags, tc.wantFlags)
			}
			if f.group != tc.wantGroup {
				t.Errorf("group = %q, want %q", f.group, tc.wantGroup)
			}
			if f.defaultVal != tc.wantDefault {
				t.Errorf("default = %q, want %q", f.defaultVal, tc.wantDefault)
			}
			if len(f.envs) != tc.wantEnvs {
				t.Errorf("envs = %v, want %d", f.envs, tc.wantEnvs)
			}
		})
	}
}

func TestCollectArguments(t *testing.T) {
	parser := newHelpParser(t, &bytes.Buffer{})
	args := collectArguments(parser.Model.Node)

	if len(args) != 1 {
		t.Fatalf("got %d arguments, want 1", len(args))
	}
	want := helpArg{name: "replays-dir", help: "Replay folder", defaultVal: "replays", optional: true}
	if args[0] != want {
		t.Errorf("argument = %+v, want %+v", args[0], want)
	}
}

func TestRenderHelp(t *testing.T) {
	parser := newHelpParser(t, &bytes.Buffer{})
	node := parser.Model.Node
	out := renderHelp("osuthumb", collectArguments(node), collectFlags(node))

	for _, want := range []string{
		"osuthumb [<replays-dir>] [flags]",
		"(default: replays)",
		"$OSU_API_KEY  used when --api-key is not given",
		"Read from config.json (--config)",
		"pearkText",
		"(--comment overrides)",
		"(--output overrides)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help is missing %q:\n%s", want, out)
		}
	}

	// Sections follow flagGroups order.
	sections := []string{"Flags:", "Render:", "osu! API:", "Output:", "Environment:", "Settings:"}
	last := -1
	for _, s := range sections {
		i := strings.Index(out, s)
		if i < 0 {
			t.Fatalf("help is missing section %q", s)
		}
		if i < last {
			t.Errorf("section %q is out of order", s)
		}
		last = i
	}
}

func TestGroupFlags_UnknownGroupLast(t *testing.T) {
	sections := groupFlags([]helpFlag{
		{name: "extra", group: "misc"},
		{name: "output", group: "output"},
		{name: "config"},
	})

	var titles []string
	for _, s := range sections {
		titles = append(titles, s.title)
	}
	want := []string{"Flags", "Output", "misc"}
	if strings.Join(titles, ",") != strings.Join(want, ",") {
		t.Errorf("sections = %v, want %v", titles, want)
	}
}

func TestStyledHelpPrinter(t *testing.T) {
	var out bytes.Buffer
	parser := newHelpParser(t, &out)

	// Exit is stubbed, so parsing carries on after help; only the output matters.
	_, _ = parser.Parse([]string{"--help"})

	if !strings.Contains(out.String(), "Settings:") {
		t.Errorf("help printer was not used:\n%s", out.String())
	}
}
