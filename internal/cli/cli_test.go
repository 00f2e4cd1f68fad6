package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRunJSON(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: treeline %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v\nstdout:\n%s", env, string(stdout))
	}
	return env
}

func nodeID(t *testing.T, env map[string]any) string {
	t.Helper()
	data, _ := env["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("expected node id in envelope data; got: %#v", env["data"])
	}
	return id
}

func showText(t *testing.T, dir string, extra ...string) string {
	t.Helper()
	args := append([]string{"--dir", dir, "show"}, extra...)
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("show failed: %v\nstderr:\n%s", err, string(stderr))
	}
	return string(stdout)
}

func TestCLI_AddIndentShowRoundTrip(t *testing.T) {
	dir := t.TempDir()

	mustRunJSON(t, "--dir", dir, "init")

	a := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "Root 1"))
	b := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "Root 2", "--after", a))
	c := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "Child 1.1", "--parent", a))

	if got, want := showText(t, dir), "Root 1\n Child 1.1\nRoot 2\n"; got != want {
		t.Fatalf("show mismatch:\n got: %q\nwant: %q", got, want)
	}

	// Indent Root 2 under Root 1, after the existing child.
	mustRunJSON(t, "--dir", dir, "indent", b)
	if got, want := showText(t, dir), "Root 1\n Child 1.1\n Root 2\n"; got != want {
		t.Fatalf("show after indent:\n got: %q\nwant: %q", got, want)
	}

	// Subtree show renders relative to the subtree root.
	if got, want := showText(t, dir, a), "Root 1\n Child 1.1\n Root 2\n"; got != want {
		t.Fatalf("subtree show:\n got: %q\nwant: %q", got, want)
	}

	// JSON view lists nodes in display order.
	env := mustRunJSON(t, "--dir", dir, "show", "--json")
	xs, ok := env["data"].([]any)
	if !ok || len(xs) != 3 {
		t.Fatalf("expected 3 nodes in json show; got: %#v", env["data"])
	}
	first, _ := xs[0].(map[string]any)
	if first["text"] != "Root 1" {
		t.Fatalf("expected Root 1 first in display order; got: %#v", xs[0])
	}
	_ = c
}

func TestCLI_StructuralNoopKeepsExitZero(t *testing.T) {
	dir := t.TempDir()
	a := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "only"))

	// First (and only) top-level node has no preceding sibling: indent is a no-op.
	env := mustRunJSON(t, "--dir", dir, "indent", a)
	if env["noop"] != true {
		t.Fatalf("expected noop envelope; got: %#v", env)
	}
	if env["data"] != nil {
		t.Fatalf("expected null data on noop; got: %#v", env["data"])
	}

	env = mustRunJSON(t, "--dir", dir, "outdent", a)
	if env["noop"] != true {
		t.Fatalf("expected outdent noop envelope; got: %#v", env)
	}
}

func TestCLI_MoveVariants(t *testing.T) {
	dir := t.TempDir()
	a := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "a"))
	b := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "b", "--after", a))
	c := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "c", "--after", b))

	mustRunJSON(t, "--dir", dir, "move", c, "--before", a)
	if got, want := showText(t, dir), "c\na\nb\n"; got != want {
		t.Fatalf("move --before:\n got: %q\nwant: %q", got, want)
	}

	mustRunJSON(t, "--dir", dir, "move", c, "--first-child-of", b)
	if got, want := showText(t, dir), "a\nb\n c\n"; got != want {
		t.Fatalf("move --first-child-of:\n got: %q\nwant: %q", got, want)
	}

	mustRunJSON(t, "--dir", dir, "move", c, "--parent", "none")
	if got, want := showText(t, dir), "a\nb\nc\n"; got != want {
		t.Fatalf("move --parent none:\n got: %q\nwant: %q", got, want)
	}

	// Reparenting under a descendant must fail and leave the tree untouched.
	mustRunJSON(t, "--dir", dir, "move", b, "--parent", a)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "move", a, "--parent", b})
	if err == nil {
		t.Fatalf("expected cycle move to fail")
	}
	if !strings.Contains(string(stderr), a) {
		t.Fatalf("expected cycle error to name the moved node; stderr:\n%s", string(stderr))
	}
	if got, want := showText(t, dir), "a\n b\nc\n"; got != want {
		t.Fatalf("tree changed by failed move:\n got: %q\nwant: %q", got, want)
	}
}

func TestCLI_DeletePromotesChildren(t *testing.T) {
	dir := t.TempDir()
	a := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "a"))
	nodeID(t, mustRunJSON(t, "--dir", dir, "add", "a1", "--parent", a))
	nodeID(t, mustRunJSON(t, "--dir", dir, "add", "a2", "--parent", a))

	mustRunJSON(t, "--dir", dir, "delete", a)
	if got, want := showText(t, dir), "a1\na2\n"; got != want {
		t.Fatalf("delete should promote children:\n got: %q\nwant: %q", got, want)
	}
}

func TestCLI_RenameChangesLabelOnly(t *testing.T) {
	dir := t.TempDir()
	a := nodeID(t, mustRunJSON(t, "--dir", dir, "add", "draft"))
	nodeID(t, mustRunJSON(t, "--dir", dir, "add", "kid", "--parent", a))

	env := mustRunJSON(t, "--dir", dir, "rename", a, "final")
	data, _ := env["data"].(map[string]any)
	if data["text"] != "final" {
		t.Fatalf("expected renamed text in envelope; got: %#v", env["data"])
	}
	if got, want := showText(t, dir), "final\n kid\n"; got != want {
		t.Fatalf("rename should keep structure:\n got: %q\nwant: %q", got, want)
	}
}

func TestCLI_ImportExport(t *testing.T) {
	dir := t.TempDir()
	mustRunJSON(t, "--dir", dir, "init")

	text := "Root 1\n Child 1.1\n  Child 1.1.1\n Child 1.2\nRoot 2\n"

	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(text))
	cmd.SetArgs([]string{"--dir", dir, "import"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("import failed: %v\nstderr:\n%s", err, errBuf.String())
	}
	var env map[string]any
	if err := json.Unmarshal(outBuf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal import envelope: %v", err)
	}
	data, _ := env["data"].(map[string]any)
	if data["nodes"] != float64(5) {
		t.Fatalf("expected 5 imported nodes; got: %#v", env["data"])
	}

	if got := showText(t, dir); got != text {
		t.Fatalf("export text mismatch:\n got: %q\nwant: %q", got, text)
	}
}

func TestCLI_AddAfterUnknownAnchorFails(t *testing.T) {
	dir := t.TempDir()
	mustRunJSON(t, "--dir", dir, "init")

	_, stderr, err := runCLI(t, []string{"--dir", dir, "add", "x", "--after", "node-missing"})
	if err == nil {
		t.Fatalf("expected unknown anchor to fail")
	}
	if !strings.Contains(string(stderr), "node-missing") {
		t.Fatalf("expected error to name the anchor; stderr:\n%s", string(stderr))
	}
}
