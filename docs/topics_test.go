package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

func TestTopics(t *testing.T) {
	// Every topic of the index can be loaded, and every topic file is in the index.
	index, err := Index()
	if err != nil {
		t.Fatalf("Index() error: %v", err)
	}
	if len(index) == 0 {
		t.Fatal("Index() is empty")
	}

	listed := map[string]bool{}
	for _, topic := range index {
		listed[topic.Name] = true
		t.Run("load_"+topic.Name, func(t *testing.T) {
			if _, err := GetTopic(topic.Name); err != nil {
				t.Errorf("failed to get topic %q: %v", topic.Name, err)
			}
			if topic.Synopsis == "" {
				t.Errorf("topic %q has no synopsis in readme.md", topic.Name)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error: %v", err)
	}
	for _, name := range all {
		if !listed[name] {
			t.Errorf("topic %q is not listed in docs/readme.md", name)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetTopics("*")
	if err != nil {
		t.Fatalf("GetTopics(*) error: %v", err)
	}
	for _, want := range []string{"# Balances", "# Recording", "# Stores"} {
		if !strings.Contains(all, want) {
			t.Errorf("GetTopics(*) does not contain %q", want)
		}
	}
	if strings.Contains(all, "# duesctl user manual") {
		t.Error("GetTopics(*) includes the readme")
	}
	if _, err := GetTopic("nothing"); err == nil {
		t.Error("GetTopic(nothing) succeeded, want error")
	}
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	bin := buildDuesctl(t)
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			blocks := codeBlocks(t, file)
			if len(blocks) == 0 {
				return
			}
			home := t.TempDir()
			s := &scenario{
				dir: t.TempDir(),
				env: append(os.Environ(),
					fmt.Sprintf("PATH=%s%c%s", bin, os.PathListSeparator, os.Getenv("PATH")),
					"HOME="+home,
					"DUES_LOG_LEVEL=error",
				),
			}
			for _, b := range blocks {
				s.play(t, b)
			}
		})
	}
}

// codeBlock is a fenced block of a topic file that the scenario runs or checks.
type codeBlock struct {
	kind string
	body string
	at   string // file:line
}

// buildDuesctl compiles duesctl once and returns the directory holding it.
func buildDuesctl(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := exec.Command("go", "build", "-o", filepath.Join(dir, "duesctl"), "../duesctl/").CombinedOutput()
	if err != nil {
		t.Fatalf("cannot build duesctl: %v\n%s", err, out)
	}
	return dir
}

// codeBlocks returns the scenario blocks of a markdown file, in document order.
func codeBlocks(t *testing.T, file string) []codeBlock {
	t.Helper()
	src, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("cannot read %s: %v", file, err)
	}

	var blocks []codeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(src))
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(src))
		switch kind {
		case bashSetup, bashRun, bashCheck, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}
		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			body.Write(seg.Value(src))
		}
		// goldmark nodes carry offsets only.
		line := bytes.Count(src[:fcb.Info.Segment.Start], []byte{'\n'}) + 1
		blocks = append(blocks, codeBlock{kind: kind, body: body.String(), at: fmt.Sprintf("%s:%d", file, line)})
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("cannot walk %s: %v", file, err)
	}
	return blocks
}

// scenario plays the blocks of one file. A setup block starts from a fresh
// directory, a console check compares with the output of the last run block.
type scenario struct {
	dir  string
	env  []string
	last string
}

func (s *scenario) play(t *testing.T, b codeBlock) {
	t.Helper()
	if b.kind == consoleCheck {
		want := strings.TrimSpace(b.body)
		got := strings.ReplaceAll(strings.TrimSpace(s.last), "\t", "        ")
		if got != want {
			t.Errorf("%s: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q", b.at, got, want, got, want)
		}
		return
	}
	if b.kind == bashSetup {
		s.dir = t.TempDir()
	}

	cmd := exec.Command("bash", "-c", "set -e; "+b.body)
	cmd.Dir = s.dir
	cmd.Env = s.env
	out, err := cmd.CombinedOutput()
	if b.kind == bashRun {
		s.last = string(out)
	}
	if err == nil {
		return
	}
	if b.kind == bashCheck {
		t.Errorf("%s: check failed: %v\n%s", b.at, err, out)
		return
	}
	t.Fatalf("%s: %s failed: %v\n%s", b.at, b.kind, err, out)
}
