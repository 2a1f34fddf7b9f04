package uecomplete

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/uecomplete/internal/store"
)

const actorHeader = `class UObject {
public:
    UWorld* GetWorld() const;
};

class AActor : public UObject {
public:
    FString GetName() const;
    USceneComponent* GetRootComponent() const;
};

class APawn : public AActor {
public:
    AController* GetController() const;
};
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSeedFiles_ThenComplete(t *testing.T) {
	e, _ := newTestEngine(t)
	header := filepath.Join(t.TempDir(), "Actor.h")
	writeFile(t, header, actorHeader)

	require.NoError(t, e.SeedFiles(context.Background(), []string{header}))

	items := complete(t, e, "void F(APawn* Pawn) {\n    Pawn->|\n}\n")
	assert.Equal(t, []string{"GetController", "GetName", "GetRootComponent", "GetWorld"}, labels(items))

	ctrl, ok := findItem(items, "GetController")
	require.True(t, ok)
	assert.Equal(t, "AController", ctrl.Detail)
}

func TestSeedFiles_IgnoresNonHeaders(t *testing.T) {
	e, s := newTestEngine(t)
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	writeFile(t, readme, "class NotCode {};")

	require.NoError(t, e.SeedFiles(context.Background(), []string{readme}))

	known, err := s.IsKnownType(context.Background(), "NotCode")
	require.NoError(t, err)
	assert.False(t, known)
}

func TestSeedFiles_MultipleHeaders(t *testing.T) {
	e, s := newTestEngine(t, WithSeedParallelism(2))
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"A.h", "B.h", "C.h"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, "class U"+name[:1]+" { int32 Value; };\n")
		paths = append(paths, path)
	}

	require.NoError(t, e.SeedFiles(context.Background(), paths))

	for _, name := range []string{"UA", "UB", "UC"} {
		items, err := s.CollectMembers(context.Background(), name)
		require.NoError(t, err)
		assert.Equal(t, []string{"Value"}, labels(items), name)
	}
}

func TestSeedFiles_ScriptErrorReported(t *testing.T) {
	scriptsDir := t.TempDir()
	writeFile(t, filepath.Join(scriptsDir, "broken.risor"), `insert_class({"symbol_type": "class"})`)

	e, s := newTestEngine(t, WithScriptsDir(scriptsDir), WithSeedScript("broken.risor"))
	dir := t.TempDir()
	good := filepath.Join(dir, "Good.h")
	writeFile(t, good, "class UGood {};\n")

	err := e.SeedFiles(context.Background(), []string{good})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seeding had 1 error(s)")

	classes, err := s.ClassesByName("UGood")
	require.NoError(t, err)
	assert.Empty(t, classes, "a failed header commits nothing")
}

func TestSeedFiles_ScriptsFS(t *testing.T) {
	fsys := fstest.MapFS{
		"custom.risor": &fstest.MapFile{Data: []byte(`
id := insert_class({"name": "UFromScript"})
insert_member({"class_id": id, "name": "Path", "type": "variable", "return_type": "FString"})
`)},
	}
	e, s := newTestEngine(t, WithScriptsFS(fsys), WithSeedScript("custom.risor"))
	header := filepath.Join(t.TempDir(), "Any.h")
	writeFile(t, header, "// empty\n")

	require.NoError(t, e.SeedFiles(context.Background(), []string{header}))

	items, err := s.CollectMembers(context.Background(), "UFromScript")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Path", items[0].Label)
	assert.Equal(t, "FString", items[0].Detail)
}

func TestSeedDirectory_SkipsBuildOutput(t *testing.T) {
	e, s := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Source", "Game", "MyActor.h"), "class AMyActor { int32 Health; };\n")
	writeFile(t, filepath.Join(root, "Intermediate", "Build", "Generated.h"), "class AGenerated { int32 X; };\n")
	writeFile(t, filepath.Join(root, ".hidden", "Hidden.h"), "class AHidden { int32 Y; };\n")
	writeFile(t, filepath.Join(root, "Source", "Notes.txt"), "class ANotes {};\n")

	require.NoError(t, e.SeedDirectory(context.Background(), root))

	ctx := context.Background()
	for name, want := range map[string]bool{
		"AMyActor":   true,
		"AGenerated": false,
		"AHidden":    false,
		"ANotes":     false,
	} {
		known, err := s.IsKnownType(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, want, known, name)
	}
}

func TestWalkListHeaders(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.h"), "")
	writeFile(t, filepath.Join(root, "B.cpp"), "")
	writeFile(t, filepath.Join(root, "Binaries", "C.h"), "")
	writeFile(t, filepath.Join(root, "Saved", "D.h"), "")
	writeFile(t, filepath.Join(root, "E.txt"), "")

	paths, err := walkListHeaders(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "A.h"),
		filepath.Join(root, "B.cpp"),
	}, paths)
}

func TestSeedFiles_MigratesFreshDatabase(t *testing.T) {
	s, err := store.NewStore(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	e := New(s)
	defer e.Close()

	header := filepath.Join(t.TempDir(), "Foo.h")
	writeFile(t, header, "class UFoo { int32 Count; };\n")
	require.NoError(t, e.SeedFiles(context.Background(), []string{header}))

	items := complete(t, e, "void F() {\n    UFoo f;\n    f.|\n}\n")
	assert.Equal(t, []string{"Count"}, labels(items))
}
