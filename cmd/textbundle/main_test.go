package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"textbundle/internal/staging"
	"textbundle/internal/testsupport"
	"textbundle/internal/textbundle"
)

func TestInfoCommandReadsBundle(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")

	out, _, err := runCLI(t, []string{"info", src}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Text file:   text.md")
	requireContains(t, out, "net.daringfireball.markdown")
	requireContains(t, out, "image.png")
	requireContains(t, out, "Total: 2 assets")

	out, _, err = runCLI(t, []string{"--json", "info", src}, env.configPath)
	if err != nil {
		t.Fatalf("info --json: %v", err)
	}
	var summary documentSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode info json: %v\n%s", err, out)
	}
	if summary.Version != 2 || summary.CreatorIdentifier != "com.example.editor" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Assets) != 2 || summary.Assets[0].Name != "image.png" {
		t.Fatalf("unexpected assets %+v", summary.Assets)
	}
	if len(summary.MetadataKeys) != 1 || summary.MetadataKeys[0] != "com.example.editor" {
		t.Fatalf("unexpected metadata keys %v", summary.MetadataKeys)
	}
}

func TestInfoCommandRejectsInvalidBundle(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := env.path("empty.textbundle")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"info", dir}, env.configPath)
	if err == nil {
		t.Fatal("expected error for bundle without text file")
	}
	requireContains(t, err.Error(), "read document")
}

func TestNewCommandCreatesBundleAndPack(t *testing.T) {
	env := setupCLITestEnv(t)
	textPath := env.path("draft.md")
	imagePath := env.path("photo.jpg")
	testsupport.WriteTree(t, env.baseDir, map[string]string{
		"draft.md":  "# Draft\n",
		"photo.jpg": "jpeg",
	})

	for _, name := range []string{"fresh.textbundle", "fresh.textpack"} {
		dest := env.path(name)
		out, _, err := runCLI(t, []string{"new", dest, "--text", textPath, "--asset", imagePath, "--transient"}, env.configPath)
		if err != nil {
			t.Fatalf("new %s: %v", name, err)
		}
		requireContains(t, out, "Created "+dest)
		requireContains(t, out, "1 assets")

		out, _, err = runCLI(t, []string{"text", dest}, env.configPath)
		if err != nil {
			t.Fatalf("text %s: %v", name, err)
		}
		if out != "# Draft\n" {
			t.Fatalf("%s: unexpected text %q", name, out)
		}

		out, _, err = runCLI(t, []string{"--json", "info", dest}, env.configPath)
		if err != nil {
			t.Fatalf("info %s: %v", name, err)
		}
		var summary documentSummary
		if err := json.Unmarshal([]byte(out), &summary); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !summary.Transient || summary.CreatorIdentifier != "org.textbundle.test" {
			t.Fatalf("%s: unexpected summary %+v", name, summary)
		}
		if len(summary.Assets) != 1 || summary.Assets[0].Name != "photo.jpg" {
			t.Fatalf("%s: unexpected assets %+v", name, summary.Assets)
		}
	}

	info, err := os.Stat(env.path("fresh.textpack"))
	if err != nil || info.IsDir() {
		t.Fatalf("expected pack archive file, got %v, %v", info, err)
	}
}

func TestTextCommandReplacesText(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")
	testsupport.WriteTree(t, env.baseDir, map[string]string{"new.md": "replaced"})

	if _, _, err := runCLI(t, []string{"text", src, "--set", env.path("new.md")}, env.configPath); err != nil {
		t.Fatalf("text --set: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(src, "text.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "replaced" {
		t.Fatalf("unexpected text %q", data)
	}
	if _, err := os.Stat(filepath.Join(src, "assets", "image.png")); err != nil {
		t.Fatalf("assets lost on rewrite: %v", err)
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCompression("deflate"))
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")
	pack := env.path("sample.textpack")
	dest := env.path("restored.textbundle")

	out, _, err := runCLI(t, []string{"pack", src, pack}, env.configPath)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	requireContains(t, out, "Packed")

	out, _, err = runCLI(t, []string{"unpack", pack, dest}, env.configPath)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	requireContains(t, out, "Unpacked")

	b, err := textbundle.Read(dest)
	if err != nil {
		t.Fatalf("read restored bundle: %v", err)
	}
	if b.AssetCount() != 2 || !strings.HasPrefix(b.Text, "# Title") {
		t.Fatalf("unexpected restored bundle: %d assets, text %q", b.AssetCount(), b.Text)
	}
	if got := b.AppMetadata("com.example.editor")["customKey"]; got != "aCustomValue" {
		t.Fatalf("metadata not preserved: %v", got)
	}

	dirs, err := staging.ListDirectories(env.cfg.Paths.ScratchDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 0 {
		t.Fatalf("expected scratch directories to be released, found %d", len(dirs))
	}
}

func TestPackRejectsWrongExtensions(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")

	if _, _, err := runCLI(t, []string{"pack", src, env.path("out.zip")}, env.configPath); err == nil {
		t.Fatal("expected pack to reject non-pack destination")
	}
	if _, _, err := runCLI(t, []string{"unpack", src, env.path("out.textbundle")}, env.configPath); err == nil {
		t.Fatal("expected unpack to reject non-pack source")
	}
}

func TestAssetCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")
	testsupport.WriteTree(t, env.baseDir, map[string]string{"extra/notes.txt": "different notes"})

	out, _, err := runCLI(t, []string{"asset", "add", src, env.path("extra", "notes.txt")}, env.configPath)
	if err != nil {
		t.Fatalf("asset add: %v", err)
	}
	requireContains(t, out, "assets/notes 2.txt")

	out, _, err = runCLI(t, []string{"asset", "list", src}, env.configPath)
	if err != nil {
		t.Fatalf("asset list: %v", err)
	}
	requireContains(t, out, "notes 2.txt")

	dest := env.path("out", "copy.txt")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"asset", "extract", src, "notes 2.txt", dest}, env.configPath); err != nil {
		t.Fatalf("asset extract: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "different notes" {
		t.Fatalf("unexpected extracted content %q, %v", data, err)
	}

	if _, _, err := runCLI(t, []string{"asset", "remove", src, "notes 2.txt"}, env.configPath); err != nil {
		t.Fatalf("asset remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "assets", "notes 2.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected asset removed, stat err %v", err)
	}
	if _, _, err := runCLI(t, []string{"asset", "remove", src, "missing.png"}, env.configPath); err == nil {
		t.Fatal("expected error removing missing asset")
	}
}

func TestAssetAddDedupe(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")
	testsupport.WriteTree(t, env.baseDir, map[string]string{"extra/notes.txt": "notes"})

	out, _, err := runCLI(t, []string{"--json", "asset", "add", "--dedupe", src, env.path("extra", "notes.txt")}, env.configPath)
	if err != nil {
		t.Fatalf("asset add: %v", err)
	}
	var results []struct {
		Name  string `json:"name"`
		Added bool   `json:"added"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Name != "" || results[0].Added {
		t.Fatalf("unexpected results %+v", results)
	}
	entries, err := os.ReadDir(filepath.Join(src, "assets"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected identical asset to be reused, found %d entries", len(entries))
	}
}

func TestMetaCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")

	out, _, err := runCLI(t, []string{"meta", "get", "--app", "com.example.editor", src}, env.configPath)
	if err != nil {
		t.Fatalf("meta get: %v", err)
	}
	requireContains(t, out, `customKey = "aCustomValue"`)
	requireContains(t, out, "version = 9")

	if _, _, err := runCLI(t, []string{"meta", "set", src, "count", "3"}, env.configPath); err != nil {
		t.Fatalf("meta set: %v", err)
	}
	if _, _, err := runCLI(t, []string{"meta", "set", src, "label", "plain words"}, env.configPath); err != nil {
		t.Fatalf("meta set: %v", err)
	}

	b, err := textbundle.Read(src, textbundle.WithIdentifier("org.textbundle.test"))
	if err != nil {
		t.Fatal(err)
	}
	nested := b.AppMetadata("")
	if n, ok := nested["count"].(json.Number); !ok || n.String() != "3" {
		t.Fatalf("unexpected count %#v", nested["count"])
	}
	if nested["label"] != "plain words" {
		t.Fatalf("unexpected label %#v", nested["label"])
	}
	if b.AppMetadata("com.example.editor")["customKey"] != "aCustomValue" {
		t.Fatal("other application metadata was not preserved")
	}

	out, _, err = runCLI(t, []string{"meta", "get", src, "label"}, env.configPath)
	if err != nil {
		t.Fatalf("meta get key: %v", err)
	}
	requireContains(t, out, `"plain words"`)

	if _, _, err := runCLI(t, []string{"meta", "remove", src, "label"}, env.configPath); err != nil {
		t.Fatalf("meta remove: %v", err)
	}
	if _, _, err := runCLI(t, []string{"meta", "get", src, "label"}, env.configPath); err == nil {
		t.Fatal("expected missing key error after remove")
	}
}

func TestTypeCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"type", "notes.textpack"}, env.configPath)
	if err != nil {
		t.Fatalf("type: %v", err)
	}
	requireContains(t, out, "org.textbundle.compressed")
	requireContains(t, out, "Pack:       yes")
	requireContains(t, out, "Bundle:     no")

	out, _, err = runCLI(t, []string{"--json", "type", "org.textbundle.package"}, env.configPath)
	if err != nil {
		t.Fatalf("type --json: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["bundle"] != true || payload["pack"] != false || payload["extension"] != "textbundle" {
		t.Fatalf("unexpected payload %v", payload)
	}

	if _, _, err := runCLI(t, []string{"type", "com.example.unknown"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown identifier")
	}
}

func TestStagingListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, "No scratch directories found")

	area := staging.Area{Root: env.cfg.Paths.ScratchDir}
	dir, err := area.Acquire("pack")
	if err != nil {
		t.Fatal(err)
	}
	testsupport.WriteAsset(t, filepath.Join(dir.Path, "payload.bin"), 2048)

	out, _, err = runCLI(t, []string{"staging", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("staging list: %v", err)
	}
	requireContains(t, out, filepath.Base(dir.Path))
	requireContains(t, out, "Total: 1 directories")

	out, _, err = runCLI(t, []string{"staging", "clean"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean: %v", err)
	}
	requireContains(t, out, "No stale directories to clean")

	out, _, err = runCLI(t, []string{"--json", "staging", "clean", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("staging clean --all: %v", err)
	}
	var payload struct {
		Removed int      `json:"removed"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Removed != 1 || len(payload.Errors) != 0 {
		t.Fatalf("unexpected clean result %+v", payload)
	}
	if _, err := os.Stat(dir.Path); !os.IsNotExist(err) {
		t.Fatalf("expected scratch dir removed, stat err %v", err)
	}
}

func writeLatin1Bundle(t *testing.T, env *cliTestEnv) (string, []byte) {
	t.Helper()
	src := env.path("legacy.textbundle")
	text := []byte("caf\xe9 notes in latin-1")
	testsupport.WriteTree(t, src, map[string]string{
		"info.json": testsupport.SampleInfo,
		"text.md":   string(text),
	})
	return src, text
}

func TestRewriteCommandsKeepUndecodableText(t *testing.T) {
	env := setupCLITestEnv(t)
	src, text := writeLatin1Bundle(t, env)
	testsupport.WriteTree(t, env.baseDir, map[string]string{"img.png": "png"})

	for _, args := range [][]string{
		{"asset", "add", src, env.path("img.png")},
		{"meta", "set", src, "count", "3"},
		{"meta", "remove", src, "count"},
		{"pack", src, env.path("legacy.textpack")},
	} {
		_, _, err := runCLI(t, args, env.configPath)
		if !errors.Is(err, textbundle.ErrTextEncoding) {
			t.Fatalf("%v: expected text encoding error, got %v", args, err)
		}
		requireContains(t, err.Error(), "text --set")
	}

	got, err := os.ReadFile(filepath.Join(src, "text.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, text) {
		t.Fatalf("text.md changed: %q", got)
	}
	if _, err := os.Stat(filepath.Join(src, "assets")); !os.IsNotExist(err) {
		t.Fatalf("expected no assets written, stat err %v", err)
	}
	if _, err := os.Stat(env.path("legacy.textpack")); !os.IsNotExist(err) {
		t.Fatalf("expected no pack written, stat err %v", err)
	}
}

func TestTextSetRepairsUndecodableText(t *testing.T) {
	env := setupCLITestEnv(t)
	src, _ := writeLatin1Bundle(t, env)
	testsupport.WriteTree(t, env.baseDir, map[string]string{"fixed.md": "café notes"})

	out, _, err := runCLI(t, []string{"info", src}, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Text file:   text.md")

	if _, _, err := runCLI(t, []string{"text", src, "--set", env.path("fixed.md")}, env.configPath); err != nil {
		t.Fatalf("text --set: %v", err)
	}
	if _, _, err := runCLI(t, []string{"meta", "set", src, "count", "3"}, env.configPath); err != nil {
		t.Fatalf("meta set after repair: %v", err)
	}
}

func TestNewRefusesUnrelatedDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	projects := env.path("projects")
	testsupport.WriteTree(t, projects, map[string]string{"important.txt": "keep me"})

	_, _, err := runCLI(t, []string{"new", projects}, env.configPath)
	if err == nil {
		t.Fatal("expected new to refuse an existing non-bundle directory")
	}
	requireContains(t, err.Error(), "--force")
	if _, err := os.Stat(filepath.Join(projects, "important.txt")); err != nil {
		t.Fatalf("existing file was removed: %v", err)
	}

	empty := env.path("empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"new", empty}, env.configPath); err != nil {
		t.Fatalf("new into empty directory: %v", err)
	}

	if _, _, err := runCLI(t, []string{"new", projects, "--force"}, env.configPath); err != nil {
		t.Fatalf("new --force: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projects, "text.md")); err != nil {
		t.Fatalf("expected bundle after --force: %v", err)
	}
}

func TestUnpackReplacesOnlyBundles(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSampleBundle(t, env.baseDir, "sample.textbundle")
	pack := env.path("sample.textpack")
	if _, _, err := runCLI(t, []string{"pack", src, pack}, env.configPath); err != nil {
		t.Fatalf("pack: %v", err)
	}

	existing := testsupport.WriteSampleBundle(t, env.baseDir, "existing.textbundle")
	if _, _, err := runCLI(t, []string{"unpack", pack, existing}, env.configPath); err != nil {
		t.Fatalf("unpack over a bundle: %v", err)
	}

	notes := env.path("notes")
	testsupport.WriteTree(t, notes, map[string]string{"todo.txt": "keep me"})
	if _, _, err := runCLI(t, []string{"unpack", pack, notes}, env.configPath); err == nil {
		t.Fatal("expected unpack to refuse a non-bundle directory")
	}
	if _, err := os.Stat(filepath.Join(notes, "todo.txt")); err != nil {
		t.Fatalf("existing file was removed: %v", err)
	}

	stray := env.path("stray.textpack")
	testsupport.WriteTree(t, env.baseDir, map[string]string{"stray.textpack": "not a zip"})
	if _, _, err := runCLI(t, []string{"pack", src, stray}, env.configPath); err == nil {
		t.Fatal("expected pack to refuse a non-pack file")
	}
	if _, _, err := runCLI(t, []string{"pack", src, stray, "--force"}, env.configPath); err != nil {
		t.Fatalf("pack --force: %v", err)
	}
}
